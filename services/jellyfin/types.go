package jellyfin

type UserData struct {
	PlayedPercentage      float64 `json:"PlayedPercentage"`
	PlaybackPositionTicks int64   `json:"PlaybackPositionTicks"`
	Played                bool    `json:"Played"`
	IsFavorite            bool    `json:"IsFavorite"`
}

type Item struct {
	ID              string            `json:"Id"`
	Name            string            `json:"Name"`
	Type            string            `json:"Type"`
	Overview        string            `json:"Overview"`
	SeriesID        string            `json:"SeriesId"`
	SeriesName      string            `json:"SeriesName"`
	ParentIndex     int               `json:"ParentIndexNumber"`
	Index           int               `json:"IndexNumber"`
	ProductionYear  int               `json:"ProductionYear"`
	PremiereDate    string            `json:"PremiereDate"`
	RunTimeTicks    int64             `json:"RunTimeTicks"`
	CommunityRating float64           `json:"CommunityRating"`
	OfficialRating  string            `json:"OfficialRating"`
	Genres          []string          `json:"Genres"`
	ProviderIDs     map[string]string `json:"ProviderIds"`
	ImageTags       map[string]string `json:"ImageTags"`
	UserData        *UserData         `json:"UserData"`
}

// PosterItemID is the item whose primary image represents this one.
// Episodes fall back to their series poster.
func (i *Item) PosterItemID() string {
	if i.Type == "Episode" && i.SeriesID != "" {
		return i.SeriesID
	}
	return i.ID
}

type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}

type Session struct {
	ID                    string `json:"Id"`
	DeviceName            string `json:"DeviceName"`
	DeviceID              string `json:"DeviceId"`
	DeviceType            string `json:"DeviceType"`
	Client                string `json:"Client"`
	UserName              string `json:"UserName"`
	SupportsRemoteControl bool   `json:"SupportsRemoteControl"`
}

type PlayRequest struct {
	ItemIDs     []string `json:"ItemIds"`
	PlayCommand string   `json:"PlayCommand"`
}

// PlayResult is the raw upstream answer to a play command.
type PlayResult struct {
	StatusCode int
	Response   string
}

func (r *PlayResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

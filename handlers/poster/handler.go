package poster

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Format string

const (
	FormatJPEG Format = "jpg"
)

const (
	JPEGQuality = 85
	MinWidth    = 32
	MaxWidth    = 1280
)

type Source string

const (
	SourceJellyfin Source = "jellyfin"
	SourceTMDB     Source = "tmdb"
)

type LibraryImages interface {
	GetImage(ctx context.Context, itemID, imageType string) ([]byte, error)
}

type CatalogImages interface {
	GetImage(ctx context.Context, path string) ([]byte, error)
}

type Handler struct {
	lib LibraryImages
	cat CatalogImages
}

func RegisterHandler(r *gin.Engine, lib LibraryImages, cat CatalogImages) {
	h := &Handler{
		lib: lib,
		cat: cat,
	}
	r.GET("/poster/jellyfin/:id/:file", h.poster(SourceJellyfin))
	r.GET("/poster/tmdb/:id/:file", h.poster(SourceTMDB))
}

type Args struct {
	source Source
	id     string
	width  int
	format Format
}

func bindArgs(c *gin.Context, source Source) (*Args, error) {
	id := c.Param("id")
	if id == "" || strings.Contains(id, "..") {
		return nil, errors.Errorf("wrong poster id %v", id)
	}
	file := c.Param("file")
	fileParts := strings.Split(file, ".")
	if len(fileParts) != 2 {
		return nil, errors.Errorf("wrong file format %v", file)
	}
	width, err := strconv.Atoi(fileParts[0])
	if err != nil {
		return nil, errors.Errorf("wrong width %v", fileParts[0])
	}
	if width < MinWidth || width > MaxWidth {
		return nil, errors.Errorf("width %d out of range %d..%d", width, MinWidth, MaxWidth)
	}
	f := Format(fileParts[1])
	if f != FormatJPEG {
		return nil, errors.Errorf("wrong format %v", f)
	}
	return &Args{
		source: source,
		id:     id,
		width:  width,
		format: f,
	}, nil
}

func (s *Handler) poster(source Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := web.GetLogger(c)
		pa, err := bindArgs(c, source)
		if err != nil {
			l.WithError(err).Warn("failed to bind poster args")
			_ = c.AbortWithError(http.StatusBadRequest, err)
			return
		}

		b, err := s.getResizedJPEG(c.Request.Context(), pa)
		if upstream.IsNotFound(err) {
			c.Status(http.StatusNotFound)
			return
		} else if err != nil {
			l.WithError(err).Warn("failed to get resized poster")
			_ = c.AbortWithError(http.StatusBadGateway, err)
			return
		}

		etag := generateETag(b.Bytes())

		if match := c.Request.Header.Get("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("Content-Type", "image/jpeg")
		c.Header("Content-Length", strconv.Itoa(b.Len()))
		c.Header("ETag", etag)
		c.Header("Cache-Control", "public, max-age=86400")
		c.Status(http.StatusOK)

		_, _ = io.Copy(c.Writer, b)
	}
}

func generateETag(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf(`"%x"`, sum[:])
}

func (s *Handler) getOriginal(ctx context.Context, args *Args) ([]byte, error) {
	switch args.source {
	case SourceJellyfin:
		return s.lib.GetImage(ctx, args.id, "Primary")
	case SourceTMDB:
		return s.cat.GetImage(ctx, "/"+args.id)
	}
	return nil, errors.Errorf("unknown poster source %v", args.source)
}

func (s *Handler) getResizedJPEG(ctx context.Context, args *Args) (*bytes.Buffer, error) {
	data, err := s.getOriginal(ctx, args)
	if err != nil {
		return nil, err
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode poster")
	}
	resized := imaging.Resize(src, args.width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: JPEGQuality})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode poster")
	}
	return &buf, nil
}

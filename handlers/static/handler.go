package static

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	assetsPathFlag = "assets-path"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   assetsPathFlag,
			Usage:  "assets path",
			Value:  "./assets",
			EnvVar: "ASSETS_PATH",
		},
	)
}

func RegisterHandler(c *cli.Context, r *gin.Engine) error {
	return Register(r, c.String(assetsPathFlag))
}

func Register(r *gin.Engine, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat assets path %v", path)
	}
	if !st.IsDir() {
		return errors.Errorf("assets path %v is not a directory", path)
	}
	r.Static("/assets", path)
	r.StaticFile("/favicon.ico", path+"/favicon.ico")
	return nil
}

package main

import (
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	_ "github.com/jimmicro/version"
)

// Context 子命令共享的运行环境
type Context struct {
	Out io.Writer
	Now func() time.Time
}

var cli struct {
	Validate  ValidateCmd  `cmd:"" help:"Validate an exported tag config before submitting."`
	Count     CountCmd     `cmd:"" help:"Print the number of images a config would generate."`
	Expand    ExpandCmd    `cmd:"" help:"Print the variable combinations of a config."`
	Normalize NormalizeCmd `cmd:"" help:"Drop malformed entries and rewrite a config file."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("tagforgectl"),
		kong.Description("Offline tools for tagforge config files."),
	)
	err := ctx.Run(&Context{Out: os.Stdout, Now: time.Now})
	ctx.FatalIfErrorf(err)
}

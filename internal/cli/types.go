package cli

import (
	"github.com/ZanzyTHEbar/gallery-go/factory"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/spf13/cobra"
)

// CmdParams holds all dependencies needed by command handlers
type CmdParams struct {
	Config     *internal.Config
	Logger     *internal.Logger
	ConfigFile string
	NoColor    bool
	Palette    []*cobra.Command
	Use        string
	Alias      string
	Short      string
	Long       string

	// App is built on first use by RequireApp unless set beforehand
	App      *factory.App
	ownedApp bool
	// AppOptions are passed to factory.NewApp when the app is built lazily
	AppOptions factory.Options
}

// RequireApp returns the wired gallery app, building it from Config on first use.
// Apps built here are closed by the root command once the command finishes.
func (p *CmdParams) RequireApp(cmd *cobra.Command) (*factory.App, error) {
	if p.App != nil {
		return p.App, nil
	}
	opts := p.AppOptions
	if opts.Console == nil {
		opts.Console = cmd.OutOrStdout()
	}
	opts.NoColor = opts.NoColor || p.NoColor
	app, err := factory.NewApp(p.Config, p.Logger, opts)
	if err != nil {
		return nil, err
	}
	p.App = app
	p.ownedApp = true
	return app, nil
}

// Release closes an app built by RequireApp
func (p *CmdParams) Release() error {
	if p.App == nil || !p.ownedApp {
		return nil
	}
	err := p.App.Close()
	p.App = nil
	p.ownedApp = false
	return err
}

type CLICMD struct {
	Root *cobra.Command
}

func NewCMD(cmdRoot *cobra.Command) *CLICMD {
	return &CLICMD{
		Root: cmdRoot,
	}
}

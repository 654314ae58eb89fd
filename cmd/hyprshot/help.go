package main

import (
	"bytes"
	"embed"
	"io"
	"sync"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
	helpErr  error
)

func parseHelpTemplates() {
	helpTmpl, helpErr = template.New("").Funcs(map[string]any{
		"flags": func(fs *pflag.FlagSet) []flagInfo {
			result := []flagInfo{}
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Hidden {
					return
				}
				arg, usage := pflag.UnquoteUsage(f)
				result = append(result, flagInfo{f.Name, f.Shorthand, arg, f.DefValue, usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt")
}

type flagInfo struct {
	Name      string
	Shorthand string
	Arg       string
	DefValue  string
	Usage     string
}

// HelpData is what the help templates render.
type HelpData interface {
	Program() string
	BuildVersion() string
	Template() string
	FlagSet() *pflag.FlagSet
}

// UsageError reports a command line mistake. It carries the exit code and renders help.
type UsageError struct {
	of   HelpData
	Err  error
	Code int
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Help renders the help text of the command that failed.
func (e *UsageError) Help() (string, error) {
	var buf bytes.Buffer
	if err := renderHelp(&buf, e.of); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func usageError(of HelpData, err error, code int) *UsageError {
	return &UsageError{of: of, Err: err, Code: code}
}

func renderHelp(w io.Writer, of HelpData) error {
	helpOnce.Do(parseHelpTemplates)
	if helpErr != nil {
		return helpErr
	}
	return helpTmpl.ExecuteTemplate(w, of.Template(), of)
}

func (r *rootCmd) Program() string {
	return r.Name()
}

func (r *rootCmd) BuildVersion() string {
	return version
}

func (r *rootCmd) Template() string {
	return "root.txt"
}

func (r *rootCmd) FlagSet() *pflag.FlagSet {
	return r.Flags()
}

// installHelp routes cobra's -h through the embedded template.
func installHelp(r *rootCmd) {
	r.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := renderHelp(c.OutOrStdout(), r); err != nil {
			c.PrintErrln(err)
		}
	})
}

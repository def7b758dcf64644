package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/app"
	"github.com/studiowebux/appclient/internal/config"
	"github.com/studiowebux/appclient/internal/dom"
	"github.com/studiowebux/appclient/internal/executor"
	"github.com/studiowebux/appclient/internal/filter"
	"github.com/studiowebux/appclient/internal/history"
	"github.com/studiowebux/appclient/internal/render"
	"github.com/studiowebux/appclient/internal/types"
)

// ErrActionFailed is returned when the action produced no payload
var ErrActionFailed = errors.New("action failed")

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatBody = "body"
)

// RunOptions contains options for running one action in CLI mode
type RunOptions struct {
	Control      string
	Input        actions.Input
	OutputFormat string // text, json, yaml, body
	Query        string // JMESPath applied to the payload
	SavePath     string
	Config       *config.Config
	Client       *http.Client
	History      *history.Manager // optional
	Logger       *zerolog.Logger
}

// Result is the printable form of an outcome
type Result struct {
	ID       string `json:"id" yaml:"id"`
	Control  string `json:"control" yaml:"control"`
	Method   string `json:"method" yaml:"method"`
	URL      string `json:"url" yaml:"url"`
	Status   int    `json:"status" yaml:"status"`
	Duration string `json:"duration" yaml:"duration"`
	Size     int    `json:"size" yaml:"size"`
	Body     string `json:"body,omitempty" yaml:"body,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Run executes one action on a headless page and prints its target.
// Failures are surfaced: the error is printed and ErrActionFailed returned.
func Run(ctx context.Context, opts RunOptions, w io.Writer) error {
	if _, ok := actions.Lookup(opts.Control); !ok {
		return fmt.Errorf("unknown control %q", opts.Control)
	}
	if opts.Query != "" && !filter.IsValidJMESPath(opts.Query) {
		return fmt.Errorf("invalid JMESPath expression '%s'", opts.Query)
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	page, err := newPage(opts.Input)
	if err != nil {
		return err
	}

	client := opts.Client
	if client == nil {
		client, err = executor.NewClient(opts.Config.TLS, opts.Config.Timeout)
		if err != nil {
			return fmt.Errorf("failed to configure HTTP client: %w", err)
		}
	}

	bound, err := app.Initialize(page, app.Options{
		BaseURL:       opts.Config.BaseURL,
		Client:        client,
		Logger:        opts.Logger,
		SurfaceErrors: true,
		OnOutcome:     history.Recorder(opts.History, opts.Logger),
	})
	if err != nil {
		return err
	}
	defer bound.Close()

	out, err := bound.Run(ctx, opts.Control)
	if err != nil {
		return err
	}

	result, err := toResult(out, page.Text(out.Target), opts.Query)
	if err != nil {
		return err
	}

	output, err := formatOutput(result, opts.OutputFormat)
	if err != nil {
		return err
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, []byte(output), config.FilePermissions); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Response saved to %s\n", opts.SavePath)
	} else {
		fmt.Fprint(w, output)
	}

	if !out.OK() {
		return fmt.Errorf("%w: %v", ErrActionFailed, out.Err)
	}
	return nil
}

// newPage builds a page with every element and fills the inputs
func newPage(in actions.Input) (*dom.Page, error) {
	page := dom.NewPage(actions.ElementIDs()...)
	values := map[string]string{
		actions.InputName:     in.Name,
		actions.InputNamePost: in.NamePost,
		actions.InputA:        in.A,
		actions.InputB:        in.B,
	}
	for id, v := range values {
		if err := page.SetValue(id, v); err != nil {
			return nil, err
		}
	}
	return page, nil
}

func toResult(out types.Outcome, body, query string) (Result, error) {
	result := Result{
		ID:       out.ID,
		Control:  out.Control,
		Method:   out.Request.Method,
		URL:      out.URL,
		Status:   out.Status,
		Duration: executor.FormatDuration(out.Duration),
		Size:     out.Size,
		Body:     body,
	}
	if out.Err != nil {
		result.Error = out.Err.Error()
		result.Body = ""
		return result, nil
	}

	if query != "" && out.Payload != nil {
		filtered, err := filter.Apply(*out.Payload, query)
		if err != nil {
			return result, err
		}
		text, err := render.Format(filtered)
		if err != nil {
			return result, err
		}
		result.Body = text
	}
	return result, nil
}

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// formatOutput formats the result based on the output format
func formatOutput(result Result, format string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case FormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case FormatBody:
		if result.Body == "" {
			return "", nil
		}
		return result.Body + "\n", nil

	case FormatText, "":
		var sb strings.Builder

		status := fmt.Sprintf("%s %s", result.Method, result.URL)
		if result.Status > 0 {
			status = fmt.Sprintf("%s -> %d", status, result.Status)
		}
		sb.WriteString(statusStyle(result.Status).Render(status))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Duration: %s | Size: %s\n", result.Duration, executor.FormatSize(result.Size)))

		if result.Body != "" {
			sb.WriteString("\n")
			sb.WriteString(result.Body)
			sb.WriteString("\n")
		}

		if result.Error != "" {
			sb.WriteString("\n")
			sb.WriteString(styleError.Render("Error: " + result.Error))
			sb.WriteString("\n")
		}

		return sb.String(), nil

	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func statusStyle(status int) lipgloss.Style {
	if executor.IsSuccessStatus(status) {
		return styleSuccess
	} else if status >= 400 || status == 0 {
		return styleError
	}
	return styleWarning
}

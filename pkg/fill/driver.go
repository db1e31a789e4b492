package fill

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Prompt is one question derived from a field definition: the label to show,
// the field's description as help text, the option list for choice prompts,
// and an optional pre-submit check for free-form input.
type Prompt struct {
	Message string
	Help    string
	Choices []schema.Option
	Check   func(string) error
}

// PromptDriver abstracts the terminal so the filler can be tested without a
// real TTY and callers can swap implementations. Choice prompts report
// option values, never labels or indices.
type PromptDriver interface {
	Line(ctx context.Context, p Prompt) (string, error)
	Secret(ctx context.Context, p Prompt) (string, error)
	Confirm(ctx context.Context, p Prompt) (bool, error)
	Pick(ctx context.Context, p Prompt) (string, error)
	PickMany(ctx context.Context, p Prompt) ([]string, error)
	Paragraph(ctx context.Context, p Prompt) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct{}

// NewSurveyDriver returns the default terminal prompt driver.
func NewSurveyDriver() PromptDriver {
	return &surveyDriver{}
}

func (d *surveyDriver) Line(ctx context.Context, p Prompt) (string, error) {
	return d.ask(ctx, &survey.Input{Message: p.Message, Help: p.Help}, p.Check)
}

func (d *surveyDriver) Secret(ctx context.Context, p Prompt) (string, error) {
	return d.ask(ctx, &survey.Password{Message: p.Message, Help: p.Help}, p.Check)
}

func (d *surveyDriver) Paragraph(ctx context.Context, p Prompt) (string, error) {
	return d.ask(ctx, &survey.Multiline{Message: p.Message, Help: p.Help}, nil)
}

func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, check func(string) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var opts []survey.AskOpt
	if check != nil {
		opts = append(opts, survey.WithValidator(func(answer any) error {
			s, _ := answer.(string)
			return check(s)
		}))
	}
	var out string
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", driverErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, p Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: p.Message, Help: p.Help}, &out); err != nil {
		return false, driverErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Pick(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var chosen string
	prompt := &survey.Select{
		Message: p.Message,
		Options: schema.OptionLabels(p.Choices),
		Help:    p.Help,
	}
	if err := survey.AskOne(prompt, &chosen); err != nil {
		return "", driverErr(err)
	}
	return valueForLabel(p.Choices, chosen), nil
}

func (d *surveyDriver) PickMany(ctx context.Context, p Prompt) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var chosen []string
	prompt := &survey.MultiSelect{
		Message: p.Message,
		Options: schema.OptionLabels(p.Choices),
		Help:    p.Help,
	}
	if err := survey.AskOne(prompt, &chosen); err != nil {
		return nil, driverErr(err)
	}
	out := make([]string, 0, len(chosen))
	for _, label := range chosen {
		out = append(out, valueForLabel(p.Choices, label))
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(os.Stdout, msg)
	return err
}

func driverErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// valueForLabel maps a displayed label back to the option's value. Survey
// prompts trade in labels; the rest of the module trades in values.
func valueForLabel(choices []schema.Option, label string) string {
	for _, opt := range choices {
		if opt.Label == label {
			return opt.Value
		}
	}
	return label
}

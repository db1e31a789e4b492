// Package fill drives an interactive terminal walkthrough of a form
// session: it prompts step by step, re-evaluates visibility after every
// answer, resolves dynamic option lists, and re-prompts on validation
// failures.
package fill

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// maxRetries caps re-prompts for a field that keeps failing validation.
const maxRetries = 3

// Filler asks the user to complete a session's form on the terminal.
type Filler struct {
	driver PromptDriver
}

// Option configures a Filler.
type Option func(*Filler)

// WithDriver replaces the prompt driver.
func WithDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// New returns a Filler using the survey terminal driver unless overridden.
func New(options ...Option) *Filler {
	f := &Filler{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Run walks every visible field of the session, prompting for each. Fields
// revealed by earlier answers are picked up on subsequent passes. Run
// returns once a pass completes with no unanswered visible fields and the
// session validates clean.
func (f *Filler) Run(ctx context.Context, sess *session.Session) error {
	asked := make(map[string]bool)

	for {
		progressed := false
		for _, step := range sess.Steps() {
			if err := f.driver.Info(ctx, "== "+step.Label+" =="); err != nil {
				return err
			}
			if err := f.fillFields(ctx, sess, step.Fields, asked, &progressed); err != nil {
				return err
			}
		}
		if !progressed {
			break
		}
	}

	result := sess.Validate()
	if !result.Valid {
		for _, issue := range result.Issues {
			if err := f.driver.Info(ctx, fmt.Sprintf("%s: %s", issue.FieldID, issue.Message)); err != nil {
				return err
			}
		}
		return fmt.Errorf("fill: %d field(s) still invalid", len(result.Issues))
	}
	return nil
}

func (f *Filler) fillFields(ctx context.Context, sess *session.Session, fields []schema.FieldDefinition, asked map[string]bool, progressed *bool) error {
	for _, field := range fields {
		if field.IsGroup() {
			if err := f.fillFields(ctx, sess, field.Children, asked, progressed); err != nil {
				return err
			}
			continue
		}
		if asked[field.ID] || !sess.Visible(field.ID) {
			continue
		}
		if err := f.fillField(ctx, sess, field); err != nil {
			return err
		}
		asked[field.ID] = true
		*progressed = true
	}
	return nil
}

func (f *Filler) fillField(ctx context.Context, sess *session.Session, field schema.FieldDefinition) error {
	for attempt := 0; ; attempt++ {
		value, err := f.prompt(ctx, sess, field)
		if err != nil {
			return err
		}
		sess.SetValue(field.ID, value)

		msg, bad := sess.Validate().MessageFor(field.ID)
		if !bad || attempt >= maxRetries {
			return nil
		}
		if err := f.driver.Info(ctx, msg); err != nil {
			return err
		}
	}
}

func (f *Filler) prompt(ctx context.Context, sess *session.Session, field schema.FieldDefinition) (any, error) {
	p := Prompt{Message: field.Label, Help: field.Description}
	if p.Message == "" {
		p.Message = field.ID
	}

	switch field.Type {
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		p.Choices = f.choices(ctx, sess, field)
		if len(p.Choices) == 0 {
			value, err := f.driver.Line(ctx, p)
			return value, err
		}
		value, err := f.driver.Pick(ctx, p)
		if err != nil {
			return nil, err
		}
		return value, nil

	case schema.FieldTypeCheckbox:
		if field.MultiValued() {
			p.Choices = field.Options
			values, err := f.driver.PickMany(ctx, p)
			if err != nil {
				return nil, err
			}
			return values, nil
		}
		checked, err := f.driver.Confirm(ctx, p)
		return checked, err

	case schema.FieldTypeSwitch:
		checked, err := f.driver.Confirm(ctx, p)
		return checked, err

	case schema.FieldTypeNumber:
		p.Check = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return fmt.Errorf("enter a number")
			}
			return nil
		}
		raw, err := f.driver.Line(ctx, p)
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return "", nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw, nil
		}
		return n, nil

	case schema.FieldTypeTextarea:
		value, err := f.driver.Paragraph(ctx, p)
		return value, err

	case schema.FieldTypePassword:
		value, err := f.driver.Secret(ctx, p)
		return value, err

	default:
		value, err := f.driver.Line(ctx, p)
		return value, err
	}
}

// choices prefers a resolved dynamic option list and falls back to the
// static declaration.
func (f *Filler) choices(ctx context.Context, sess *session.Session, field schema.FieldDefinition) []schema.Option {
	if field.DynamicOptions != nil {
		res := sess.Options(ctx, field.ID)
		if res.Options != nil {
			return res.Options
		}
	}
	return field.Options
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/cleanclear-sd/lead-api/internal/quote"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errQuoteCancelled = errors.New("quote request cancelled")

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Take a quote request interactively and store it as a new lead",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		id, err := runQuote(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.leads)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nQuote request saved as lead %s\n", id)
		return nil
	},
}

// prompter reads one answer per line
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// clearAnswer empties a free-text field
const clearAnswer = "-"

// line prompts and returns the raw answer
func (p *prompter) line(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return p.in.Text(), nil
}

// ask reads a choice or an action. The answer is trimmed and an empty answer
// keeps current.
func (p *prompter) ask(label, current string) (string, error) {
	answer, err := p.line(label, current)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// runQuote walks a wizard over a line-oriented terminal and returns the id of
// the stored lead. An empty answer keeps the current value and "-" clears a
// text field.
func runQuote(ctx context.Context, in io.Reader, out io.Writer, gateway quote.Gateway) (uuid.UUID, error) {
	dialog := quote.NewDialogSession()
	dialog.Open()
	defer dialog.Close()

	wizard := quote.NewWizard(gateway, quote.WithOnSuccess(func(uuid.UUID) { dialog.Close() }))
	p := &prompter{in: bufio.NewScanner(in), out: out}

	for dialog.IsOpen() {
		st := wizard.State()
		fmt.Fprintf(out, "\nStep %d of %d: %s\n", st.Step+1, st.TotalSteps, st.StepTitle)
		if st.ValidationError != "" {
			fmt.Fprintf(out, "! %s\n", st.ValidationError)
		}
		if st.Status == quote.StatusError {
			fmt.Fprintln(out, "! The last attempt failed. Your answers were kept.")
		}

		patch, err := askStep(p, st.Step, st.Draft)
		if err != nil {
			wizard.Reset()
			return uuid.Nil, err
		}
		wizard.Update(patch)

		last := st.Step == st.TotalSteps-1
		if last {
			printSummary(out, wizard.State().Draft)
		}

		action, err := p.ask(actionPrompt(st.Step, last), "")
		if err != nil {
			wizard.Reset()
			return uuid.Nil, err
		}

		switch strings.ToLower(action) {
		case "q", "quit":
			wizard.Reset()
			return uuid.Nil, errQuoteCancelled
		case "b", "back":
			if err := wizard.Back(); err != nil {
				return uuid.Nil, err
			}
		case "":
			if last {
				err = wizard.Submit(ctx)
			} else {
				err = wizard.Next()
			}
			if err != nil && !isRecoverable(err) {
				return uuid.Nil, err
			}
		default:
			fmt.Fprintf(out, "Unknown choice %q\n", action)
		}
	}

	st := wizard.State()
	if st.LeadID == nil {
		return uuid.Nil, errQuoteCancelled
	}
	return *st.LeadID, nil
}

func isRecoverable(err error) bool {
	var verr *quote.ValidationError
	return errors.As(err, &verr) || errors.Is(err, quote.ErrSubmissionFailed)
}

func actionPrompt(step int, last bool) string {
	verb := "next"
	if last {
		verb = "submit"
	}
	if step == 0 {
		return fmt.Sprintf("Enter to %s, q to quit", verb)
	}
	return fmt.Sprintf("Enter to %s, b to go back, q to quit", verb)
}

func askStep(p *prompter, step int, d quote.Draft) (quote.Patch, error) {
	switch step {
	case quote.StepServices:
		return askServices(p, d)
	case quote.StepProperty:
		return askProperty(p, d)
	case quote.StepContact:
		return askContact(p, d)
	case quote.StepSchedule:
		return askSchedule(p, d)
	}
	return quote.Patch{}, nil
}

func askServices(p *prompter, d quote.Draft) (quote.Patch, error) {
	for i, o := range catalog.Services {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o.Label)
	}
	answer, err := p.ask("Services (numbers or ids, comma separated)", strings.Join(d.Services, ","))
	if err != nil {
		return quote.Patch{}, err
	}

	var ids []string
	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := pickOption(part, catalog.Services)
		if !ok {
			fmt.Fprintf(p.out, "Ignoring unknown service %q\n", part)
			continue
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return quote.Patch{Services: &ids}, nil
}

func askProperty(p *prompter, d quote.Draft) (quote.Patch, error) {
	var patch quote.Patch
	var err error

	if patch.PropertyType, err = askChoice(p, "Property type", catalog.PropertyTypes, d.PropertyType); err != nil {
		return patch, err
	}
	if patch.Stories, err = askChoice(p, "Stories", catalog.StoryOptions, d.Stories); err != nil {
		return patch, err
	}
	if patch.SquareFootage, err = askChoice(p, "Square footage", catalog.SquareFootageOptions, d.SquareFootage); err != nil {
		return patch, err
	}
	if d.HasService(catalog.ServiceSolar) {
		if patch.SolarPanelCount, err = askChoice(p, "Solar panels", catalog.SolarPanelOptions, d.SolarPanelCount); err != nil {
			return patch, err
		}
	}
	if patch.PropertyNotes, err = askText(p, "Property notes", d.PropertyNotes); err != nil {
		return patch, err
	}
	return patch, nil
}

func askContact(p *prompter, d quote.Draft) (quote.Patch, error) {
	var patch quote.Patch
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"First name", d.FirstName, &patch.FirstName},
		{"Last name", d.LastName, &patch.LastName},
		{"Phone", d.Phone, &patch.Phone},
		{"Email", d.Email, &patch.Email},
		{"Street address", d.StreetAddress, &patch.StreetAddress},
		{"City", d.City, &patch.City},
		{"ZIP code", d.ZipCode, &patch.ZipCode},
	}
	for _, f := range fields {
		v, err := askText(p, f.label, f.current)
		if err != nil {
			return patch, err
		}
		trimmed := strings.TrimSpace(*v)
		*f.dst = &trimmed
	}
	return patch, nil
}

func askSchedule(p *prompter, d quote.Draft) (quote.Patch, error) {
	var patch quote.Patch
	var err error

	if patch.PreferredTimeframe, err = askOption(p, "Preferred timeframe", catalog.TimeframeOptions, d.PreferredTimeframe); err != nil {
		return patch, err
	}
	if patch.PreferredTime, err = askOption(p, "Preferred time", catalog.TimeOfDayOptions, d.PreferredTime); err != nil {
		return patch, err
	}
	if patch.Notes, err = askText(p, "Notes", d.Notes); err != nil {
		return patch, err
	}
	return patch, nil
}

// askText reads free text as typed. A blank answer keeps current and "-"
// clears the field.
func askText(p *prompter, label, current string) (*string, error) {
	v, err := p.line(label, current)
	if err != nil {
		return nil, err
	}
	switch strings.TrimSpace(v) {
	case "":
		v = current
	case clearAnswer:
		v = ""
	}
	return &v, nil
}

// askChoice offers a numbered list; free text is kept as typed
func askChoice(p *prompter, label string, choices []string, current string) (*string, error) {
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, c)
	}
	v, err := p.ask(label, current)
	if err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(choices) {
		v = choices[n-1]
	}
	return &v, nil
}

// askOption stores the option id; unknown answers keep the current value
func askOption(p *prompter, label string, options []catalog.Option, current string) (*string, error) {
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o.Label)
	}
	v, err := p.ask(label, current)
	if err != nil {
		return nil, err
	}
	if v == current {
		return &v, nil
	}
	id, ok := pickOption(v, options)
	if !ok {
		fmt.Fprintf(p.out, "Ignoring unknown choice %q\n", v)
		return &current, nil
	}
	return &id, nil
}

// pickOption resolves a 1-based index, an id or a label
func pickOption(answer string, options []catalog.Option) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1].ID, true
		}
		return "", false
	}
	for _, o := range options {
		if strings.EqualFold(answer, o.ID) || strings.EqualFold(answer, o.Label) {
			return o.ID, true
		}
	}
	return "", false
}

func printSummary(out io.Writer, d quote.Draft) {
	fmt.Fprintln(out, "\nReview")
	fmt.Fprintf(out, "  Services:  %s\n", strings.Join(catalog.ServiceLabels(d.Services), ", "))
	if d.PropertyType != "" {
		fmt.Fprintf(out, "  Property:  %s\n", d.PropertyType)
	}
	fmt.Fprintf(out, "  Contact:   %s %s, %s, %s\n", d.FirstName, d.LastName, d.Phone, d.Email)
	if d.City != "" || d.ZipCode != "" {
		fmt.Fprintf(out, "  Location:  %s %s\n", d.City, d.ZipCode)
	}
	if d.PreferredTimeframe != "" {
		fmt.Fprintf(out, "  When:      %s %s\n",
			catalog.TimeframeShortLabel(d.PreferredTimeframe),
			catalog.TimeShortLabel(d.PreferredTime))
	}
}

package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/cleanclear-sd/lead-api/internal/quote"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	drafts []quote.Draft
	fail   int
	id     uuid.UUID
}

func (g *fakeGateway) SubmitLead(_ context.Context, d quote.Draft) (uuid.UUID, error) {
	g.drafts = append(g.drafts, d)
	if g.fail > 0 {
		g.fail--
		return uuid.Nil, errors.New("database unavailable")
	}
	return g.id, nil
}

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

// happyPath answers every step for a window cleaning request
var happyPath = []string{
	"2", "", // services, next
	"1", "2", "", "", "", // property type, stories, square footage, notes, next
	"Ana", "Cruz", "619-555-0101", "ana@example.com", "", "Chula Vista", "91910", "", // contact, next
	"1", "morning", "", // timeframe, time, notes
}

func TestRunQuote_Submits(t *testing.T) {
	gw := &fakeGateway{id: uuid.New()}
	var out bytes.Buffer

	id, err := runQuote(context.Background(), script(append(happyPath, "")...), &out, gw)

	require.NoError(t, err)
	assert.Equal(t, gw.id, id)
	require.Len(t, gw.drafts, 1)
	d := gw.drafts[0]
	assert.Equal(t, []string{catalog.ServiceWindow}, d.Services)
	assert.Equal(t, "Residential", d.PropertyType)
	assert.Equal(t, "2 Stories", d.Stories)
	assert.Equal(t, "Ana", d.FirstName)
	assert.Equal(t, "Chula Vista", d.City)
	assert.Equal(t, "asap", d.PreferredTimeframe)
	assert.Equal(t, "morning", d.PreferredTime)
	assert.Contains(t, out.String(), "Step 4 of 4: Schedule & Review")
	assert.Contains(t, out.String(), "Window Cleaning")
}

func TestRunQuote_ShowsValidationAndAsksAgain(t *testing.T) {
	gw := &fakeGateway{id: uuid.New()}
	var out bytes.Buffer

	_, err := runQuote(context.Background(), script(
		"", "", // no services, next
		"solar", "", // solar, next
		"", "", "", "3", "", "q", // property step with solar panels, quit
	), &out, gw)

	assert.ErrorIs(t, err, errQuoteCancelled)
	assert.Empty(t, gw.drafts)
	assert.Contains(t, out.String(), "! "+quote.MsgSelectService)
	assert.Contains(t, out.String(), "Step 2 of 4: Property Details")
	assert.Contains(t, out.String(), "Solar panels")
}

func TestRunQuote_RetriesAfterGatewayFailure(t *testing.T) {
	gw := &fakeGateway{id: uuid.New(), fail: 1}
	var out bytes.Buffer

	lines := append(append([]string{}, happyPath...), "") // submit fails
	lines = append(lines, "", "", "", "")                 // keep schedule answers, submit again

	id, err := runQuote(context.Background(), script(lines...), &out, gw)

	require.NoError(t, err)
	assert.Equal(t, gw.id, id)
	require.Len(t, gw.drafts, 2)
	assert.Equal(t, gw.drafts[0], gw.drafts[1])
	assert.Contains(t, out.String(), "The last attempt failed")
}

func TestRunQuote_BackKeepsAnswers(t *testing.T) {
	gw := &fakeGateway{id: uuid.New()}
	var out bytes.Buffer

	_, err := runQuote(context.Background(), script(
		"1,3", "", // solar and power washing, next
		"", "", "", "", "", "b", // property step unchanged, back
		"", "q", // services kept, quit
	), &out, gw)

	assert.ErrorIs(t, err, errQuoteCancelled)
	assert.Contains(t, out.String(), "[solar,power-washing]")
}

func TestRunQuote_EndOfInput(t *testing.T) {
	_, err := runQuote(context.Background(), script("2"), io.Discard, &fakeGateway{})

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPickOption(t *testing.T) {
	id, ok := pickOption("3", catalog.Services)
	assert.True(t, ok)
	assert.Equal(t, catalog.ServicePowerWashing, id)

	id, ok = pickOption("window cleaning", catalog.Services)
	assert.True(t, ok)
	assert.Equal(t, catalog.ServiceWindow, id)

	_, ok = pickOption("9", catalog.Services)
	assert.False(t, ok)

	_, ok = pickOption("pool", catalog.Services)
	assert.False(t, ok)
}

func TestRunQuote_FreeTextKeptAsTypedAndClearable(t *testing.T) {
	gw := &fakeGateway{id: uuid.New()}
	var out bytes.Buffer

	_, err := runQuote(context.Background(), script(
		"2", "", // services, next
		"1", "2", "", "  two dogs, side gate  ", "", // property with notes, next
		"  Ana ", "Cruz", "619-555-0101", "ana@example.com", "", "", "", "", // contact, next
		"1", "morning", "  ring twice ", "b", // schedule with notes, back
		"", "", "", "", "", "", "", "", // contact kept, next
		"", "", "-", // timeframe and time kept, notes cleared
		"", // submit
	), &out, gw)

	require.NoError(t, err)
	require.Len(t, gw.drafts, 1)
	d := gw.drafts[0]
	assert.Equal(t, "  two dogs, side gate  ", d.PropertyNotes)
	assert.Equal(t, "Ana", d.FirstName, "contact fields are trimmed")
	assert.Empty(t, d.Notes)
}

func TestAskText(t *testing.T) {
	p := &prompter{in: bufio.NewScanner(script("  keep my spaces ", "   ", "-")), out: io.Discard}

	v, err := askText(p, "Notes", "old")
	require.NoError(t, err)
	assert.Equal(t, "  keep my spaces ", *v)

	v, err = askText(p, "Notes", "old")
	require.NoError(t, err)
	assert.Equal(t, "old", *v, "blank keeps the current value")

	v, err = askText(p, "Notes", "old")
	require.NoError(t, err)
	assert.Empty(t, *v)
}

package tool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

type fakeDirectory struct {
	clients map[int64]contractx.ClientRecord
	search  []contractx.ClientRecord
	err     error
}

func (f *fakeDirectory) SearchClients(ctx context.Context, advisor contractx.Identity, query string) ([]contractx.ClientRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.search, nil
}

func (f *fakeDirectory) GetClient(ctx context.Context, id int64) (*contractx.ClientRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	client, ok := f.clients[id]
	if !ok {
		return nil, contractx.ErrNotFound
	}
	return &client, nil
}

type fakeMeetingBook struct {
	meetings []contractx.Meeting
	err      error
	gotFrom  time.Time
	gotTo    time.Time
}

func (f *fakeMeetingBook) MeetingsInRange(ctx context.Context, advisor contractx.Identity, from, to time.Time) ([]contractx.Meeting, error) {
	f.gotFrom, f.gotTo = from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.meetings, nil
}

type fakeNews struct {
	items []contractx.NewsItem
	err   error
}

func (f *fakeNews) Latest(ctx context.Context, topic string, limit int) ([]contractx.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakePortfolios struct {
	portfolio *contractx.Portfolio
	err       error
}

func (f *fakePortfolios) Build(ctx context.Context, advisor contractx.Identity, riskProfile string, amount float64) (*contractx.Portfolio, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.portfolio, nil
}

func defaultDeps() Deps {
	return Deps{
		Clients: &fakeDirectory{clients: map[int64]contractx.ClientRecord{
			10: {ID: 10, AdvisorID: 7, FirstName: "Laura", LastName: "Bianchi", Email: "laura.bianchi@example.com"},
			20: {ID: 20, AdvisorID: 9, FirstName: "Marco", LastName: "Verdi", Email: "marco.verdi@example.com"},
		}},
		Meetings:   &fakeMeetingBook{},
		Portfolios: &fakePortfolios{portfolio: &contractx.Portfolio{RiskProfile: "balanced", Amount: 1000}},
		News:       &fakeNews{},
	}
}

func dispatcherWith(t *testing.T, deps Deps) *Dispatcher {
	t.Helper()
	registry, err := DefaultRegistry(deps)
	if err != nil {
		t.Fatalf("DefaultRegistry() error = %v", err)
	}
	d, err := NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

func TestDefaultRegistryToolSet(t *testing.T) {
	t.Parallel()

	registry, err := DefaultRegistry(defaultDeps())
	if err != nil {
		t.Fatalf("DefaultRegistry() error = %v", err)
	}

	want := []string{
		ToolGetClients,
		ToolGetClientDetails,
		ToolGetMeetingsByDateRange,
		ToolCreateMeetingData,
		ToolComposeEmailData,
		ToolGeneratePortfolio,
		ToolGetFinancialNews,
		ToolCalculate,
	}
	infos := registry.Infos()
	if len(infos) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(infos))
	}
	for i, name := range want {
		if infos[i].Name != name {
			t.Fatalf("tool %d = %s, want %s", i, infos[i].Name, name)
		}
	}
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	def := simpleDefinition("dup", func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
		return nil, nil, nil
	})
	if err := r.Register(def); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register(def); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestGetClientDetailsOwnershipIsolation(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())

	// Client 20 belongs to advisor 9; caller is advisor 7.
	out := d.Dispatch(context.Background(), toolCall("c1", ToolGetClientDetails, `{"clientId":20}`), 7)
	if out.Success {
		t.Fatal("cross-tenant client lookup must fail")
	}
	if !strings.Contains(out.Error, "another advisor") {
		t.Fatalf("expected authorization error, got: %s", out.Error)
	}
	if out.Payload != nil {
		t.Fatal("payload must never leak on authorization failure")
	}
}

func TestGetClientDetailsOwnedClient(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())

	out := d.Dispatch(context.Background(), toolCall("c1", ToolGetClientDetails, `{"clientId":10}`), 7)
	if !out.Success {
		t.Fatalf("expected success, got: %s", out.Error)
	}
	client, ok := out.Payload.(*contractx.ClientRecord)
	if !ok {
		t.Fatalf("unexpected payload type %T", out.Payload)
	}
	if client.ID != 10 {
		t.Fatalf("unexpected client id %d", client.ID)
	}
}

func TestComposeEmailDataGuardsRecipient(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())

	out := d.Dispatch(context.Background(), toolCall("c1", ToolComposeEmailData,
		`{"clientId":20,"subject":"Aggiornamento","body":"Buongiorno"}`), 7)
	if out.Success {
		t.Fatal("email to another advisor's client must fail")
	}
	if out.SideEffect != nil {
		t.Fatal("no side effect may be emitted on failure")
	}
}

func TestComposeEmailDataEmitsEmailSideEffect(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())

	out := d.Dispatch(context.Background(), toolCall("c1", ToolComposeEmailData,
		`{"clientId":10,"subject":"Aggiornamento","body":"Buongiorno"}`), 7)
	if !out.Success {
		t.Fatalf("expected success, got: %s", out.Error)
	}
	if out.SideEffect == nil || out.SideEffect.Kind != contractx.SideEffectEmail {
		t.Fatalf("expected email side effect, got %#v", out.SideEffect)
	}
	draft, ok := out.SideEffect.Payload.(contractx.EmailDraft)
	if !ok {
		t.Fatalf("unexpected side effect payload %T", out.SideEffect.Payload)
	}
	if draft.To != "laura.bianchi@example.com" {
		t.Fatalf("unexpected recipient %s", draft.To)
	}
}

func TestGetMeetingsByDateRangeParsesRange(t *testing.T) {
	t.Parallel()

	book := &fakeMeetingBook{meetings: []contractx.Meeting{
		{ID: 1, AdvisorID: 7, ClientID: 10, Title: "Revisione"},
		{ID: 2, AdvisorID: 7, ClientID: 10, Title: "Firma"},
		{ID: 3, AdvisorID: 7, ClientID: 10, Title: "Check-in"},
	}}
	deps := defaultDeps()
	deps.Meetings = book
	d := dispatcherWith(t, deps)

	out := d.Dispatch(context.Background(), toolCall("c1", ToolGetMeetingsByDateRange,
		`{"from":"2026-08-31","to":"2026-09-07"}`), 7)
	if !out.Success {
		t.Fatalf("expected success, got: %s", out.Error)
	}

	if book.gotFrom.Format("2006-01-02") != "2026-08-31" {
		t.Fatalf("unexpected from: %v", book.gotFrom)
	}
	if book.gotTo.Format("2006-01-02") != "2026-09-07" {
		t.Fatalf("unexpected to: %v", book.gotTo)
	}

	payload, ok := out.Payload.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload type %T", out.Payload)
	}
	if payload["count"] != 3 {
		t.Fatalf("unexpected count: %v", payload["count"])
	}
}

func TestGetMeetingsByDateRangeFailsClosedOnForeignRow(t *testing.T) {
	t.Parallel()

	deps := defaultDeps()
	deps.Meetings = &fakeMeetingBook{meetings: []contractx.Meeting{
		{ID: 1, AdvisorID: 9, ClientID: 20, Title: "Altrui"},
	}}
	d := dispatcherWith(t, deps)

	out := d.Dispatch(context.Background(), toolCall("c1", ToolGetMeetingsByDateRange, `{}`), 7)
	if out.Success {
		t.Fatal("foreign meeting row must fail the call")
	}
}

func TestCreateMeetingDataDefaultsDuration(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())

	out := d.Dispatch(context.Background(), toolCall("c1", ToolCreateMeetingData,
		`{"title":"Revisione portafoglio","startsAt":"2026-09-03T10:00:00Z","clientId":10}`), 7)
	if !out.Success {
		t.Fatalf("expected success, got: %s", out.Error)
	}

	draft, ok := out.Payload.(contractx.MeetingDraft)
	if !ok {
		t.Fatalf("unexpected payload type %T", out.Payload)
	}
	if draft.EndsAt.Sub(draft.StartsAt) != time.Hour {
		t.Fatalf("expected one hour default duration, got %v", draft.EndsAt.Sub(draft.StartsAt))
	}
	if draft.ClientName != "Laura Bianchi" {
		t.Fatalf("unexpected client name %q", draft.ClientName)
	}
	if out.SideEffect == nil || out.SideEffect.Kind != contractx.SideEffectMeeting {
		t.Fatalf("expected meeting side effect, got %#v", out.SideEffect)
	}
}

func TestGeneratePortfolioSideEffect(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())

	out := d.Dispatch(context.Background(), toolCall("c1", ToolGeneratePortfolio,
		`{"riskProfile":"balanced","amount":50000}`), 7)
	if !out.Success {
		t.Fatalf("expected success, got: %s", out.Error)
	}
	if out.SideEffect == nil || out.SideEffect.Kind != contractx.SideEffectPortfolio {
		t.Fatalf("expected portfolio side effect, got %#v", out.SideEffect)
	}
}

func TestCalculateTool(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())

	out := d.Dispatch(context.Background(), toolCall("c1", ToolCalculate,
		`{"expression":"2 + 3 * (4 - 1)"}`), 7)
	if !out.Success {
		t.Fatalf("expected success, got: %s", out.Error)
	}
	result, ok := out.Payload.(calculationResult)
	if !ok {
		t.Fatalf("unexpected payload type %T", out.Payload)
	}
	if result.Result != 11 {
		t.Fatalf("unexpected result %v", result.Result)
	}

	out = d.Dispatch(context.Background(), toolCall("c2", ToolCalculate,
		`{"expression":"2 + abc"}`), 7)
	if out.Success {
		t.Fatal("expected invalid expression to fail")
	}
}

func TestOutcomeEncodesToJSON(t *testing.T) {
	t.Parallel()

	d := dispatcherWith(t, defaultDeps())
	out := d.Dispatch(context.Background(), toolCall("c1", ToolGetClients, `{"query":"bianchi"}`), 7)
	if !out.Success {
		t.Fatalf("expected success, got: %s", out.Error)
	}
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("outcome must be JSON-encodable: %v", err)
	}
}

package tui

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/remote"
	"github.com/covenant/covenant-terminal/pkg/remote/remotetest"
	"github.com/covenant/covenant-terminal/pkg/tui/testhelpers"
)

type planHarness struct {
	srv   *remotetest.Server
	m     *PlanBuilderModel
	d     *testhelpers.Driver
	flags *files.FlagStore
}

func newPlanHarness(t *testing.T) *planHarness {
	t.Helper()
	env := testhelpers.NewTestEnvironment(t)
	env.InitProjectStructure()

	h := &planHarness{
		srv:   remotetest.NewServer(t, ""),
		flags: files.NewFlagStore(filepath.Join(env.TempDir, files.CovenantDir, files.StateFile)),
	}
	return h.fresh(t)
}

// fresh opens another builder on the same server and project.
func (h *planHarness) fresh(t *testing.T) *planHarness {
	t.Helper()
	client := remote.New(models.APISettings{BaseURL: h.srv.URL}, nil)
	m := NewPlanBuilderModel(PlanBuilderConfig{
		Store:    client.Plans(),
		Signal:   h.flags,
		PageSize: 7,
	})
	t.Cleanup(m.Close)
	m.SetSize(140, 50)
	return &planHarness{srv: h.srv, m: m, d: testhelpers.NewDriver(t, m), flags: h.flags}
}

// draft names the plan, shrinks it to 30 days and schedules John 3:16 on
// day one through the library.
func (h *planHarness) draft(name string) {
	h.d.Press("r").Type(name).Press("enter")
	h.d.Press("d", "backspace", "backspace", "backspace").Type("30").Press("enter")
	h.d.Press("a").Type("John 3:16").Press("enter")
	h.d.Press("tab", "space", "tab", "enter")
}

func TestPlanBuilderDraftAndSave(t *testing.T) {
	h := newPlanHarness(t)
	h.draft("Summer Reading")

	plan := h.m.Plan().Document()
	if plan.Name != "Summer Reading" || plan.DurationDays != 30 {
		t.Fatalf("plan = %q for %d days", plan.Name, plan.DurationDays)
	}
	if got := h.m.Plan().Passages(1); len(got) != 1 || got[0].Reference != "John 3:16" {
		t.Fatalf("day 1 = %+v, want John 3:16", got)
	}
	if h.m.Library().Len() != 1 {
		t.Errorf("library has %d passages, want the scheduled one kept", h.m.Library().Len())
	}
	if h.m.Controller().Phase() != lifecycle.Dirty {
		t.Errorf("phase = %v, want Dirty", h.m.Controller().Phase())
	}
	if unsaved, _ := h.flags.Unsaved(); !unsaved {
		t.Error("unsaved flag not raised")
	}

	h.d.Press("ctrl+s")

	if h.m.Controller().Phase() != lifecycle.Clean {
		t.Fatalf("phase after save = %v, want Clean (alert %v)", h.m.Controller().Phase(), h.m.Controller().Alert())
	}
	id := h.m.Plan().ID()
	saved, ok := h.srv.Plan(id)
	if !ok {
		t.Fatalf("plan %q not on the server", id)
	}
	testhelpers.AssertPlanEqual(t, h.m.Plan().Document(), saved)
	if unsaved, _ := h.flags.Unsaved(); unsaved {
		t.Error("unsaved flag still raised after save")
	}
	if h.m.Controller().Notice() == "" {
		t.Error("expected a success notice")
	}

	// A second save with nothing changed never reaches the server.
	h.d.Press("ctrl+s")
	if n := h.srv.Count(http.MethodPut, "/plans/"+id); n != 0 {
		t.Errorf("PUT count = %d, want 0", n)
	}
}

func TestPlanBuilderClearUnlinksSavedPlan(t *testing.T) {
	h := newPlanHarness(t)
	h.draft("Advent")
	h.d.Press("ctrl+s")
	id := h.m.Plan().ID()
	if id == "" {
		t.Fatalf("save failed: %v", h.m.Controller().Alert())
	}

	h.d.Press("C")
	if !h.m.confirm.Active() {
		t.Fatal("expected a clear prompt")
	}
	details := strings.Join(h.m.confirm.prompt.Details, "; ")
	if !strings.Contains(details, "scheduled passages: 1") || !strings.Contains(details, "instead of updating "+id) {
		t.Errorf("details = %q", details)
	}
	testhelpers.AssertContains(t, h.m.View(), "Clear everything")

	h.d.Press("y")

	if h.m.Plan().ID() != "" || h.m.Plan().Document().PassageCount() != 0 {
		t.Errorf("after clear id=%q passages=%d", h.m.Plan().ID(), h.m.Plan().Document().PassageCount())
	}
	if h.m.Controller().Phase() != lifecycle.Blank {
		t.Errorf("phase = %v, want Blank", h.m.Controller().Phase())
	}
	if _, ok := h.srv.Plan(id); !ok {
		t.Error("clearing removed the saved plan")
	}
}

func TestPlanBuilderNameConflictOverride(t *testing.T) {
	h := newPlanHarness(t)
	existing := h.srv.PutPlan(testhelpers.NewPlanFixture("Summer Reading").WithDuration(10).Build())

	h.draft("summer reading")
	h.d.Press("ctrl+s")

	if h.m.Controller().Phase() != lifecycle.ConflictPending {
		t.Fatalf("phase = %v, want ConflictPending", h.m.Controller().Phase())
	}
	if !h.m.confirm.Active() {
		t.Fatal("expected the override dialog")
	}
	testhelpers.AssertContains(t, h.m.View(), "Name already in use", "Override replaces plan "+existing)

	h.d.Press("y")

	if h.m.Controller().Phase() != lifecycle.Clean {
		t.Fatalf("phase after override = %v, want Clean", h.m.Controller().Phase())
	}
	if h.m.Plan().ID() != existing {
		t.Errorf("id = %q, want the existing %q", h.m.Plan().ID(), existing)
	}
	saved, _ := h.srv.Plan(existing)
	if saved.DurationDays != 30 || saved.PassageCount() != 1 {
		t.Errorf("server plan = %+v, want the overriding draft", saved)
	}
}

func TestPlanBuilderConflictKeepEditing(t *testing.T) {
	h := newPlanHarness(t)
	h.srv.PutPlan(testhelpers.NewPlanFixture("Lent").WithDuration(40).Build())

	h.d.Press("r").Type("Lent").Press("enter", "ctrl+s", "n")

	if h.m.Controller().Phase() != lifecycle.Dirty {
		t.Errorf("phase = %v, want Dirty", h.m.Controller().Phase())
	}
	if n := h.srv.Count(http.MethodPost, "/plans"); n != 1 {
		t.Errorf("POST count = %d, want 1", n)
	}
}

func TestPlanBuilderSaveFailure(t *testing.T) {
	h := newPlanHarness(t)
	h.d.Press("r").Type("Advent").Press("enter")
	h.srv.FailNext(http.StatusInternalServerError)

	h.d.Press("ctrl+s")

	if h.m.Controller().Phase() != lifecycle.Failed {
		t.Fatalf("phase = %v, want Failed", h.m.Controller().Phase())
	}
	testhelpers.AssertContains(t, h.m.View(), "Failed to save", "Error")

	h.d.Press("ctrl+s")
	if h.m.Controller().Phase() != lifecycle.Clean {
		t.Errorf("retry phase = %v, want Clean", h.m.Controller().Phase())
	}
}

func TestPlanBuilderOpen(t *testing.T) {
	h := newPlanHarness(t)
	id := h.srv.PutPlan(testhelpers.NewPlanFixture("Gospels").
		WithDuration(20).
		WithReading(1, "Matthew", 1).
		WithReading(9, "Mark", 1).
		Build())

	h.d.Run(h.m.Open(id))

	if h.m.Controller().Phase() != lifecycle.Clean {
		t.Fatalf("phase = %v, want Clean", h.m.Controller().Phase())
	}
	if h.m.Plan().Name() != "Gospels" || h.m.Plan().ID() != id {
		t.Errorf("loaded %q (%s)", h.m.Plan().Name(), h.m.Plan().ID())
	}
	if h.m.Days().Selected() != 1 || h.m.Days().Page() != 0 {
		t.Errorf("selected day %d on page %d, want day 1 on page 0", h.m.Days().Selected(), h.m.Days().Page())
	}

	h.d.Press("]")
	if h.m.Days().Page() != 1 || h.m.Days().Selected() != 8 {
		t.Errorf("after next page: page %d day %d, want page 1 day 8", h.m.Days().Page(), h.m.Days().Selected())
	}
	testhelpers.AssertContains(t, h.m.View(), "Mark 1", "Day 9")
}

func TestPlanBuilderOpenMissing(t *testing.T) {
	h := newPlanHarness(t)

	h.d.Run(h.m.Open("plan-404"))

	alert := h.m.Controller().Alert()
	if alert == nil || alert.Kind != lifecycle.LoadFailed {
		t.Fatalf("alert = %v, want LoadFailed", alert)
	}
	if h.m.Controller().Phase() != lifecycle.Blank {
		t.Errorf("phase = %v, want Blank", h.m.Controller().Phase())
	}
}

func TestPlanBuilderMoveBetweenDays(t *testing.T) {
	h := newPlanHarness(t)
	h.draft("Moves")

	// Focus the passage on day 1, grab it, walk to day 3 and drop.
	h.d.Press("J", "space", "right", "right", "enter")

	if got := h.m.Plan().Passages(1); len(got) != 0 {
		t.Errorf("day 1 still has %v", got)
	}
	if got := h.m.Plan().Passages(3); len(got) != 1 {
		t.Fatalf("day 3 = %v, want the moved passage", got)
	}

	// Back to the library: the passage is unscheduled.
	h.d.Press("J", "space", "tab", "enter")
	if h.m.Plan().Document().PassageCount() != 0 {
		t.Errorf("plan still has %d passages", h.m.Plan().Document().PassageCount())
	}
}

func TestPlanBuilderDropPastEndIsSilent(t *testing.T) {
	h := newPlanHarness(t)
	h.draft("Silent")

	// Grab the day 1 passage and hover day 20, then shorten the plan
	// under the drag.
	h.d.Press("J", "space")
	h.m.days.Select(20, h.m.Plan().DurationDays())
	h.m.updateHover()
	if err := h.m.Plan().SetProperty("durationDays", 10); err != nil {
		t.Fatal(err)
	}
	before, _ := h.m.status.GetStatus()

	h.d.Press("enter")

	if got := h.m.Plan().Passages(1); len(got) != 1 {
		t.Errorf("day 1 = %v, want the passage left in place", got)
	}
	if after, _ := h.m.status.GetStatus(); after != before {
		t.Errorf("status = %q after the drop, want %q", after, before)
	}
	if a := h.m.Controller().Alert(); a != nil {
		t.Errorf("alert = %v", a)
	}
	if h.m.drag.Dragging() {
		t.Error("drag still active")
	}
}

func TestPlanBuilderShrinkRejected(t *testing.T) {
	h := newPlanHarness(t)
	h.draft("Short")
	h.d.Press("right", "right")
	h.d.Press("tab", "space", "tab", "enter") // library passage onto day 3

	h.d.Press("d", "backspace", "backspace").Type("2").Press("enter")

	if h.m.Plan().DurationDays() != 30 {
		t.Errorf("duration = %d, want unchanged 30", h.m.Plan().DurationDays())
	}
	msg, ok := h.m.status.GetStatus()
	if !ok || !strings.Contains(msg, "day 3") {
		t.Errorf("status = %q, want the orphaned day named", msg)
	}
}

func TestPlanBuilderLeaveWithUnsavedChanges(t *testing.T) {
	h := newPlanHarness(t)
	h.d.Press("r").Type("Draft").Press("enter")

	h.d.Press("q")
	if !h.m.confirm.Active() {
		t.Fatal("expected a discard prompt")
	}
	if testhelpers.SawMsg[leaveBuilderMsg](h.d) {
		t.Fatal("left before confirming")
	}

	h.d.Press("n")
	if h.m.Controller().Phase() != lifecycle.Dirty || h.m.Plan().Name() != "Draft" {
		t.Errorf("cancel changed the draft: %v %q", h.m.Controller().Phase(), h.m.Plan().Name())
	}

	h.d.Press("q", "y")
	if !testhelpers.SawMsg[leaveBuilderMsg](h.d) {
		t.Error("expected to leave after confirming")
	}
	if unsaved, _ := h.flags.Unsaved(); unsaved {
		t.Error("unsaved flag still raised after discarding")
	}
}

func TestPlanBuilderNewKeepsCleanPlan(t *testing.T) {
	h := newPlanHarness(t)

	h.d.Press("N")

	if h.m.confirm.Active() {
		t.Error("no prompt expected for an untouched plan")
	}
	if h.m.Plan().DurationDays() != models.DefaultPlanDuration {
		t.Errorf("duration = %d", h.m.Plan().DurationDays())
	}
}

func TestPlanBuilderYank(t *testing.T) {
	h := newPlanHarness(t)
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	h.draft("Psalms")
	h.d.Press("y")

	testhelpers.AssertContains(t, copied, `"name": "Psalms"`, `"durationDays": 30`, "John 3:16")
	if strings.Contains(copied, `"id"`+": \"plan-") {
		t.Error("snapshot should not carry the plan id")
	}
}

func TestPlanBuilderExportImport(t *testing.T) {
	h := newPlanHarness(t)
	h.draft("Roundtrip")

	h.d.Press("E", "enter")
	path := filepath.Join(files.CovenantDir, files.ExportsDir, "plan-roundtrip.json")
	if _, err := files.ReadExport("plan-roundtrip"); err != nil {
		t.Fatalf("export not written to %s: %v", path, err)
	}

	other := h.fresh(t)
	other.d.Press("I").Type("plan-roundtrip").Press("enter")
	if other.m.Plan().Name() != "Roundtrip" || len(other.m.Plan().Passages(1)) != 1 {
		t.Errorf("imported %q with day 1 = %v", other.m.Plan().Name(), other.m.Plan().Passages(1))
	}
	if other.m.Controller().Phase() != lifecycle.Dirty {
		t.Errorf("phase after import = %v, want Dirty", other.m.Controller().Phase())
	}
}

func TestPlanBuilderImportInvalid(t *testing.T) {
	h := newPlanHarness(t)
	if _, err := files.WriteExport("broken", []byte(`{"name": 3}`)); err != nil {
		t.Fatal(err)
	}

	h.d.Press("I").Type("broken").Press("enter")

	alert := h.m.Controller().Alert()
	if alert == nil || alert.Kind != lifecycle.ImportInvalid {
		t.Errorf("alert = %v, want ImportInvalid", alert)
	}
	if h.m.Plan().Name() != "" {
		t.Errorf("name = %q, want the blank plan untouched", h.m.Plan().Name())
	}
}

func TestPlanBuilderFilterAndOverlay(t *testing.T) {
	h := newPlanHarness(t)
	h.d.Press("a").Type("John 3:16").Press("enter")
	h.d.Press("a").Type("Romans 8").Press("enter")

	h.d.Press("/").Type("romans").Press("enter")
	items := h.m.libraryItems()
	if len(items) != 1 || items[0].Book != "Romans" {
		t.Errorf("filtered library = %v", items)
	}
	testhelpers.AssertContains(t, h.m.View(), "Book: Romans")

	h.d.Press("o", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace").
		Type("2026-02-27").Press("enter")
	if _, on := h.m.Days().Overlay(); !on {
		t.Fatal("overlay not enabled")
	}
	testhelpers.AssertContains(t, h.m.View(), "Feb 27 Fri", "Mar 1 Sun")

	h.d.Press("o")
	if _, on := h.m.Days().Overlay(); on {
		t.Error("overlay still on after toggling")
	}
}

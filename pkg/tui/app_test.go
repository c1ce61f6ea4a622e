package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/remote"
	"github.com/covenant/covenant-terminal/pkg/remote/remotetest"
	"github.com/covenant/covenant-terminal/pkg/tui/testhelpers"
)

func newTestApp(t *testing.T, opts Options) (*App, *remotetest.Server, *testhelpers.Driver) {
	t.Helper()
	testhelpers.NewTestEnvironment(t).InitProjectStructure()
	srv := remotetest.NewServer(t, "")
	client := remote.New(models.APISettings{BaseURL: srv.URL}, nil)
	opts.Plans = client.Plans()
	opts.Forms = client.Forms()
	opts.Folders = client.Folders()
	opts.Builder = models.BuilderSettings{PageSize: 7}
	a := NewApp(opts)
	return a, srv, testhelpers.NewDriver(t, a)
}

func TestAppNavigation(t *testing.T) {
	a, _, d := newTestApp(t, Options{})

	if a.View() != "Loading..." {
		t.Errorf("View() before sizing = %q", a.View())
	}
	d.Init().Send(tea.WindowSizeMsg{Width: 120, Height: 40})
	testhelpers.AssertContains(t, a.View(), "Reading plan builder", "Form builder")

	d.Press("enter")
	if a.Plan() == nil {
		t.Fatal("plan builder not opened")
	}
	testhelpers.AssertContains(t, a.View(), "Plan Builder")

	d.Press("q")
	if a.Plan() != nil {
		t.Fatal("plan builder still open after leaving")
	}

	d.Press("down", "enter")
	if a.Form() == nil {
		t.Fatal("form builder not opened")
	}
	testhelpers.AssertContains(t, a.View(), "Form Builder")

	d.Press("ctrl+c")
	if !d.Quit() {
		t.Error("ctrl+c did not quit")
	}
	if a.Form() != nil {
		t.Error("builders not closed on quit")
	}
}

func TestAppStartsOnDocument(t *testing.T) {
	a, srv, d := newTestApp(t, Options{Start: StartPlan})
	// The id is only known once the server holds the plan.
	a.opts.DocumentID = srv.PutPlan(testhelpers.NewPlanFixture("Lent").WithDuration(40).Build())

	d.Init()

	if a.Plan() == nil || a.Plan().Plan().Name() != "Lent" {
		t.Fatalf("plan builder did not load the plan")
	}
}

func TestAppQuitFromHome(t *testing.T) {
	_, _, d := newTestApp(t, Options{})
	d.Send(tea.WindowSizeMsg{Width: 80, Height: 24}).Press("q")
	if !d.Quit() {
		t.Error("q on the home menu did not quit")
	}
}

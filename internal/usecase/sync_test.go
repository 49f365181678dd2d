package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"TrackerSync/internal/domain"
)

var clockNow = time.Date(2026, time.January, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return clockNow }

func acceptedAt(contestID int, index string, at time.Time) domain.Submission {
	return domain.Submission{
		Key:       domain.ProblemKey{ContestID: contestID, Index: index},
		Verdict:   domain.VerdictAccepted,
		CreatedAt: at,
		Rating:    1100,
		Tags:      []string{"greedy"},
		Language:  "GNU C++17",
		Name:      fmt.Sprintf("Problem %d%s", contestID, index),
	}
}

type fakeSource struct {
	subs  []domain.Submission
	calls int
}

func (f *fakeSource) Submissions(ctx context.Context, handle string) ([]domain.Submission, error) {
	f.calls++
	return f.subs, nil
}

type fakeUsers struct {
	info domain.UserStats
	err  error
}

func (f *fakeUsers) UserInfo(ctx context.Context, handle string) (domain.UserStats, error) {
	return f.info, f.err
}

type fakeTable struct {
	urls        []string
	appended    []domain.ProblemRow
	startRow    int
	appendCalls int
}

func (f *fakeTable) RowCount(ctx context.Context) (int, error) {
	return len(f.urls), nil
}

func (f *fakeTable) ScanURLColumn(ctx context.Context) ([]string, error) {
	return f.urls, nil
}

func (f *fakeTable) AppendRows(ctx context.Context, startRow int, rows []domain.ProblemRow) error {
	f.appendCalls++
	f.startRow = startRow
	f.appended = append(f.appended, rows...)
	return nil
}

type fakeProps struct {
	values map[string]string
}

func newFakeProps() *fakeProps {
	return &fakeProps{values: map[string]string{}}
}

func (f *fakeProps) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", errors.New("missing " + key)
	}
	return v, nil
}

func (f *fakeProps) GetDefault(ctx context.Context, key, fallback string) string {
	if v, ok := f.values[key]; ok {
		return v
	}
	return fallback
}

func (f *fakeProps) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

type fakeNotifier struct {
	titles   []string
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, title, message string) error {
	f.titles = append(f.titles, title)
	f.messages = append(f.messages, message)
	return nil
}

func newTestSync(source *fakeSource, table *fakeTable, props *fakeProps, notifier *fakeNotifier) *Sync {
	return NewSync(SyncConfig{Handle: "alice", WindowDays: 365}, SyncDeps{
		Source:     source,
		Users:      &fakeUsers{info: domain.UserStats{Handle: "alice", Rating: 1450}},
		Table:      table,
		Properties: props,
		Notifier:   notifier,
		Clock:      fixedClock,
	})
}

func TestSyncAppendsDelta(t *testing.T) {
	t.Parallel()

	source := &fakeSource{subs: []domain.Submission{
		acceptedAt(1000, "A", clockNow.Add(4*24*time.Hour)),
		acceptedAt(1000, "B", clockNow.Add(7*24*time.Hour)),
		{Key: domain.ProblemKey{ContestID: 2, Index: "A"}, Verdict: "WRONG_ANSWER", CreatedAt: clockNow},
	}}
	table := &fakeTable{}
	props := newFakeProps()
	notifier := &fakeNotifier{}

	report, err := newTestSync(source, table, props, notifier).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if report.Added != 2 || report.TotalAcceptedInWindow != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if table.appendCalls != 1 {
		t.Fatalf("expected one bulk write, got %d", table.appendCalls)
	}
	if table.startRow != 10 {
		t.Fatalf("empty table must append at row 10, got %d", table.startRow)
	}
	// Newest first: 1000-B was solved later.
	if table.appended[0].Seq != 1 || !strings.Contains(table.appended[0].Name, "1000B") {
		t.Fatalf("unexpected first row %+v", table.appended[0])
	}
	if table.appended[1].Seq != 2 {
		t.Fatalf("sequence must continue, got %d", table.appended[1].Seq)
	}

	if props.values[propWindowStart] != "2026-01-01" {
		t.Fatalf("window anchor not persisted: %v", props.values)
	}
	if props.values[propSolveStats] == "" {
		t.Fatal("solve stats snapshot not persisted")
	}
	if props.values[propUserStats] == "" {
		t.Fatal("user stats snapshot not persisted")
	}

	if len(notifier.titles) != 1 {
		t.Fatalf("expected exactly one notification, got %v", notifier.titles)
	}
	if !strings.Contains(notifier.messages[0], "Added 2 new accepted submission(s)") {
		t.Fatalf("unexpected summary %q", notifier.messages[0])
	}
}

func TestSyncSecondRunAddsNothing(t *testing.T) {
	t.Parallel()

	source := &fakeSource{subs: []domain.Submission{
		acceptedAt(1000, "A", clockNow.Add(4*24*time.Hour)),
		acceptedAt(1000, "B", clockNow.Add(7*24*time.Hour)),
	}}
	table := &fakeTable{urls: []string{
		"https://codeforces.com/problemset/problem/1000/A",
		"https://codeforces.com/problemset/problem/1000/B",
	}}
	notifier := &fakeNotifier{}

	report, err := newTestSync(source, table, newFakeProps(), notifier).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if report.Added != 0 {
		t.Fatalf("expected nothing added, got %d", report.Added)
	}
	if report.TotalAcceptedInWindow != 2 {
		t.Fatalf("known problems must still count toward the window total, got %d",
			report.TotalAcceptedInWindow)
	}
	if table.appendCalls != 0 {
		t.Fatal("no write expected")
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "No new accepted submissions") {
		t.Fatalf("unexpected notifications %v", notifier.messages)
	}
}

func TestSyncMissingHandleAbortsBeforeFetch(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	notifier := &fakeNotifier{}
	sync := NewSync(SyncConfig{Handle: "  "}, SyncDeps{
		Source:     source,
		Table:      &fakeTable{},
		Properties: newFakeProps(),
		Notifier:   notifier,
		Clock:      fixedClock,
	})

	if _, err := sync.Run(context.Background()); err == nil {
		t.Fatal("expected configuration error")
	}
	if source.calls != 0 {
		t.Fatal("must abort before any network call")
	}
	if len(notifier.titles) != 1 || !strings.Contains(notifier.titles[0], "Not Configured") {
		t.Fatalf("expected one configuration message, got %v", notifier.titles)
	}
}

func TestSyncReusesPersistedWindowAnchor(t *testing.T) {
	t.Parallel()

	props := newFakeProps()
	props.values[propWindowStart] = "2025-06-01"
	source := &fakeSource{}
	notifier := &fakeNotifier{}

	report, err := newTestSync(source, &fakeTable{}, props, notifier).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	want := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !report.Window.Start.Equal(want) {
		t.Fatalf("expected persisted anchor %v, got %v", want, report.Window.Start)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	source := &fakeSource{subs: []domain.Submission{
		acceptedAt(1000, "A", clockNow.Add(24*time.Hour)),
		acceptedAt(1000, "B", clockNow.Add(48*time.Hour)),
	}}
	table := &fakeTable{}
	notifier := &fakeNotifier{}

	preview, err := newTestSync(source, table, newFakeProps(), notifier).DryRun(context.Background())
	if err != nil {
		t.Fatalf("DryRun error: %v", err)
	}

	if preview.NewProblems != 2 || len(preview.Sample) != 2 {
		t.Fatalf("unexpected preview %+v", preview)
	}
	if table.appendCalls != 0 {
		t.Fatal("dry run must not write")
	}
	if len(notifier.titles) != 0 {
		t.Fatalf("dry run must not notify, got %v", notifier.titles)
	}
}

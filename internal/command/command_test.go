package command

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/MrSnakeDoc/bang/internal/logger"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
	"github.com/MrSnakeDoc/bang/internal/tasks"
)

// fakeRepo is an in-memory Repository for handler tests.
type fakeRepo struct {
	mu        sync.Mutex
	bangs     map[string]*domain.UserBang
	tabs      map[string]*domain.Tab
	bookmarks map[string]*domain.Bookmark // keyed by URL
	notes     []*domain.Note
	reminders map[string]*domain.Reminder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bangs:     make(map[string]*domain.UserBang),
		tabs:      make(map[string]*domain.Tab),
		bookmarks: make(map[string]*domain.Bookmark),
		reminders: make(map[string]*domain.Reminder),
	}
}

func norm(trigger string) string {
	return strings.ToLower(strings.TrimPrefix(trigger, "!"))
}

func (f *fakeRepo) FindBang(_ context.Context, _, trigger string) (*domain.UserBang, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bangs[norm(trigger)]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) SaveBang(_ context.Context, bang *domain.UserBang) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *bang
	f.bangs[norm(bang.Trigger)] = &copied
	return nil
}

func (f *fakeRepo) DeleteBang(_ context.Context, _, trigger string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bangs[norm(trigger)]; !ok {
		return storage.ErrNotFound
	}
	delete(f.bangs, norm(trigger))
	return nil
}

func (f *fakeRepo) RenameBang(ctx context.Context, bang *domain.UserBang, newTrigger string) error {
	old := bang.Trigger
	bang.Trigger = newTrigger
	if err := f.SaveBang(ctx, bang); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if norm(old) != norm(newTrigger) {
		delete(f.bangs, norm(old))
	}
	return nil
}

func (f *fakeRepo) FindTab(_ context.Context, _, trigger string) (*domain.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tab, ok := f.tabs[norm(trigger)]; ok {
		copied := *tab
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) RenameTab(_ context.Context, tab *domain.Tab, newTrigger string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tabs, norm(tab.Trigger))
	tab.Trigger = newTrigger
	copied := *tab
	f.tabs[norm(newTrigger)] = &copied
	return nil
}

func (f *fakeRepo) DeleteTab(_ context.Context, _, trigger string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tabs[norm(trigger)]; !ok {
		return storage.ErrNotFound
	}
	delete(f.tabs, norm(trigger))
	return nil
}

func (f *fakeRepo) FindBookmarkByURL(_ context.Context, _, url string) (*domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if bm, ok := f.bookmarks[url]; ok {
		copied := *bm
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) SaveBookmark(_ context.Context, bm *domain.Bookmark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *bm
	f.bookmarks[bm.URL] = &copied
	return nil
}

func (f *fakeRepo) SaveNote(_ context.Context, note *domain.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *note
	f.notes = append(f.notes, &copied)
	return nil
}

func (f *fakeRepo) SaveReminder(_ context.Context, reminder *domain.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *reminder
	f.reminders[reminder.ID] = &copied
	return nil
}

// fakeFetcher returns a fixed title for every URL.
type fakeFetcher struct {
	title string
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return f.title, f.err
}

func testHandler(repo *fakeRepo) (*Handler, *tasks.Runner) {
	log := logger.New("error", false)
	runner := tasks.NewRunner(log)
	h := New(Deps{
		Repo:    repo,
		Fetcher: &fakeFetcher{title: "Fetched Title"},
		Tasks:   runner,
		Logger:  log,
		Now:     func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
	})
	return h, runner
}

func testCaller() *domain.Caller {
	return &domain.Caller{
		UserID: "user-1",
		Prefs: &domain.Preferences{
			UserID:      "user-1",
			SearchURL:   "https://duckduckgo.com/?q={query}",
			DefaultTime: "09:00",
			Timezone:    "UTC",
		},
	}
}

func dispatch(t *testing.T, h *Handler, caller *domain.Caller, input string) *domain.Outcome {
	t.Helper()
	q := domain.ParseQuery(input)
	out, err := h.Dispatch(context.Background(), caller, q)
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

func TestBookmarkCommand(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)
	caller := testCaller()

	out := dispatch(t, h, caller, "!bm https://example.com My Site")
	assert.Equal(t, domain.OutcomeRedirect, out.Kind)
	assert.Equal(t, "https://example.com", out.Location)
	assert.Equal(t, domain.CacheNoStore, out.Cache.Scope)

	runner.Wait()
	bm := repo.bookmarks["https://example.com"]
	require.NotNil(t, bm)
	assert.Equal(t, "My Site", bm.Title)
	assert.False(t, bm.Hidden)
}

func TestBookmarkDuplicateURL(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)
	caller := testCaller()

	dispatch(t, h, caller, "!bm https://example.com First")
	runner.Wait()

	out := dispatch(t, h, caller, "!bm https://example.com Second")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
	assert.Contains(t, out.Message, "First")

	runner.Wait()
	assert.Equal(t, "First", repo.bookmarks["https://example.com"].Title)
}

func TestBookmarkMissingURL(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)

	out := dispatch(t, h, testCaller(), "!bm just some words")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
	assert.Empty(t, repo.bookmarks)
}

func TestBookmarkHideRequiresPassword(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)

	caller := testCaller()
	out := dispatch(t, h, caller, "!bm https://example.com secret --hide")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)

	caller.Prefs.HiddenPasswordHash = "$2a$10$hash"
	out = dispatch(t, h, caller, "!bm https://example.com secret --hide")
	assert.Equal(t, domain.OutcomeRedirect, out.Kind)

	runner.Wait()
	require.NotNil(t, repo.bookmarks["https://example.com"])
	assert.True(t, repo.bookmarks["https://example.com"].Hidden)
}

func TestBookmarkTitleFetchedWhenOmitted(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)

	dispatch(t, h, testCaller(), "!bm https://example.com")
	runner.Wait()

	bm := repo.bookmarks["https://example.com"]
	require.NotNil(t, bm)
	assert.Equal(t, "Fetched Title", bm.Title)
}

func TestAddBang(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)

	out := dispatch(t, h, testCaller(), "!add !foo https://foo.example/?q={{{s}}}")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)

	runner.Wait()
	bang := repo.bangs["foo"]
	require.NotNil(t, bang)
	assert.Equal(t, "!foo", bang.Trigger)
	assert.Equal(t, domain.ActionSearch, bang.Action)
	assert.Equal(t, "Fetched Title", bang.Name)
}

func TestAddBangReservedNameRejectedIdempotently(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)
	caller := testCaller()

	for i := 0; i < 3; i++ {
		out := dispatch(t, h, caller, "!add !del https://example.com")
		assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
		assert.Contains(t, out.Message, "reserved")
	}
	assert.Empty(t, repo.bangs)
}

func TestAddBangCollisionKeepsURL(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)
	caller := testCaller()

	dispatch(t, h, caller, "!add !foo https://foo.example")
	runner.Wait()

	out := dispatch(t, h, caller, "!add !foo https://other.example")
	assert.Equal(t, domain.OutcomeRetryPrompt, out.Kind)
	assert.Equal(t, "https://other.example", out.URL)

	// Tab triggers collide too: the namespace is shared.
	repo.tabs["work"] = &domain.Tab{Trigger: "!work", UserID: "user-1"}
	out = dispatch(t, h, caller, "!add !work https://work.example")
	assert.Equal(t, domain.OutcomeRetryPrompt, out.Kind)
}

func TestAddBangInvalidTrigger(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)

	out := dispatch(t, h, testCaller(), "!add !fo-o https://foo.example")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
	assert.Empty(t, repo.bangs)
}

func TestDeleteTrigger(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)
	caller := testCaller()

	repo.bangs["foo"] = &domain.UserBang{Trigger: "!foo", UserID: "user-1"}
	repo.tabs["foo"] = &domain.Tab{Trigger: "!foo", UserID: "user-1"}

	out := dispatch(t, h, caller, "!del !foo")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	assert.Empty(t, repo.bangs)
	assert.Empty(t, repo.tabs)

	out = dispatch(t, h, caller, "!del !foo")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
}

func TestEditRenameOnly(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)

	repo.bangs["foo"] = &domain.UserBang{Trigger: "!foo", UserID: "user-1", URL: "https://foo.example", Name: "Foo"}

	out := dispatch(t, h, testCaller(), "!edit !foo !bar")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	assert.Nil(t, repo.bangs["foo"])
	require.NotNil(t, repo.bangs["bar"])
	assert.Equal(t, "https://foo.example", repo.bangs["bar"].URL)
	assert.Equal(t, "Foo", repo.bangs["bar"].Name)
}

func TestEditURLOnlyRefetchesTitle(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)

	repo.bangs["foo"] = &domain.UserBang{Trigger: "!foo", UserID: "user-1", URL: "https://foo.example", Name: "Foo"}

	out := dispatch(t, h, testCaller(), "!edit !foo https://new.example")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)

	runner.Wait()
	bang := repo.bangs["foo"]
	require.NotNil(t, bang)
	assert.Equal(t, "https://new.example", bang.URL)
	assert.Equal(t, "Fetched Title", bang.Name)
}

func TestEditRenameAndURL(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)

	repo.bangs["foo"] = &domain.UserBang{Trigger: "!foo", UserID: "user-1", URL: "https://foo.example"}

	out := dispatch(t, h, testCaller(), "!edit !foo !bar https://new.example")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)

	runner.Wait()
	assert.Nil(t, repo.bangs["foo"])
	require.NotNil(t, repo.bangs["bar"])
	assert.Equal(t, "https://new.example", repo.bangs["bar"].URL)
}

func TestEditCollisionRejected(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)

	repo.bangs["foo"] = &domain.UserBang{Trigger: "!foo", UserID: "user-1"}
	repo.bangs["bar"] = &domain.UserBang{Trigger: "!bar", UserID: "user-1"}

	out := dispatch(t, h, testCaller(), "!edit !foo !bar")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)

	out = dispatch(t, h, testCaller(), "!edit !foo !add")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
	assert.Contains(t, out.Message, "reserved")
}

func TestEditTabOnly(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)

	repo.tabs["work"] = &domain.Tab{Trigger: "!work", UserID: "user-1", Title: "Work"}

	// Rename applies to the tab alone.
	out := dispatch(t, h, testCaller(), "!edit !work !job")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	assert.Nil(t, repo.tabs["work"])
	require.NotNil(t, repo.tabs["job"])

	// A URL change with no bang row is rejected: tabs have no single URL.
	out = dispatch(t, h, testCaller(), "!edit !job https://new.example")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
}

func TestEditURLRederivesAction(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)

	repo.bangs["docs"] = &domain.UserBang{Trigger: "!docs", UserID: "user-1", URL: "https://docs.example", Action: domain.ActionRedirect}

	// Swapping in a template URL turns the bang into a search.
	out := dispatch(t, h, testCaller(), "!edit !docs https://docs.example/search?q={query}")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	runner.Wait()
	require.NotNil(t, repo.bangs["docs"])
	assert.Equal(t, domain.ActionSearch, repo.bangs["docs"].Action)

	// And back: a plain URL makes it a redirect again.
	out = dispatch(t, h, testCaller(), "!edit !docs https://docs.example/latest")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	runner.Wait()
	assert.Equal(t, domain.ActionRedirect, repo.bangs["docs"].Action)
}

func TestNoteCommand(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)
	caller := testCaller()

	out := dispatch(t, h, caller, "!note Shopping | eggs and milk")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	require.Len(t, repo.notes, 1)
	assert.Equal(t, "Shopping", repo.notes[0].Title)
	assert.Equal(t, "eggs and milk", repo.notes[0].Content)

	out = dispatch(t, h, caller, "!note just some text")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	require.Len(t, repo.notes, 2)
	assert.Equal(t, "Untitled", repo.notes[1].Title)

	out = dispatch(t, h, caller, "!note secret stuff --hide")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
	assert.Len(t, repo.notes, 2)
}

func TestRemindRecurring(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)

	out := dispatch(t, h, testCaller(), "!remind weekly water the plants")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)

	require.Len(t, repo.reminders, 1)
	for _, reminder := range repo.reminders {
		assert.Equal(t, domain.ReminderRecurring, reminder.Type)
		assert.Equal(t, "weekly", reminder.Frequency)
		assert.Equal(t, "water the plants", reminder.Description)
		assert.Equal(t, time.Saturday, reminder.DueAt.Weekday())
	}
}

func TestRemindBogusTiming(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)
	caller := testCaller()
	caller.Prefs.DefaultTiming = "bogus"

	out := dispatch(t, h, caller, "!remind pay rent")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)
	assert.Empty(t, repo.reminders)
}

func TestRemindURLOnlyFetchesTitle(t *testing.T) {
	repo := newFakeRepo()
	h, runner := testHandler(repo)

	out := dispatch(t, h, testCaller(), "!remind https://example.com/article")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)

	runner.Wait()
	require.Len(t, repo.reminders, 1)
	for _, reminder := range repo.reminders {
		assert.Equal(t, "Fetched Title", reminder.Description)
		assert.Equal(t, "https://example.com/article", reminder.Content)
	}
}

func TestRemindWithoutPreferences(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)

	// A user who never saved preferences has no Prefs at all.
	caller := &domain.Caller{UserID: "user-1"}

	out := dispatch(t, h, caller, "!remind daily water the plants")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)

	require.Len(t, repo.reminders, 1)
	for _, reminder := range repo.reminders {
		assert.Equal(t, "daily", reminder.Frequency)
		// Defaults apply: 09:00 UTC, the next day.
		assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), reminder.DueAt)
	}

	// No timing token either: the "daily" fallback kicks in.
	out = dispatch(t, h, caller, "!remind pay rent")
	assert.Equal(t, domain.OutcomeGoBack, out.Kind)
	assert.Len(t, repo.reminders, 2)
}

func TestFindAndTabs(t *testing.T) {
	repo := newFakeRepo()
	h, _ := testHandler(repo)
	caller := testCaller()

	out := dispatch(t, h, caller, "!find hello world")
	assert.Equal(t, domain.OutcomeRedirect, out.Kind)
	assert.Equal(t, "/search?q=hello+world&type=global", out.Location)

	out = dispatch(t, h, caller, "!find")
	assert.Equal(t, domain.OutcomeValidationAlert, out.Kind)

	out = dispatch(t, h, caller, "!tabs")
	assert.Equal(t, domain.OutcomeRedirect, out.Kind)
	assert.Equal(t, "/tabs", out.Location)
}

func TestReserved(t *testing.T) {
	for _, trigger := range []string{"!bm", "add", "!DEL", "edit", "note", "remind", "find", "tabs"} {
		if !Reserved(trigger) {
			t.Errorf("Reserved(%q) = false, want true", trigger)
		}
	}
	if Reserved("!foo") {
		t.Error("Reserved(!foo) = true, want false")
	}
}

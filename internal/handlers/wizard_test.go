package handlers

import (
	"context"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/telegram/state"
	"github.com/m3rciful/phoneshop/internal/config"
	"github.com/m3rciful/phoneshop/internal/domain"
	"github.com/m3rciful/phoneshop/internal/repo"
)

// fakeCatalog serves canned inventory for handler tests.
type fakeCatalog struct {
	models   []string
	storages map[string][]int
	colors   map[string]map[int][]string
	phones   []domain.Phone
}

func (f *fakeCatalog) InStock(context.Context) ([]domain.Phone, error)  { return f.phones, nil }
func (f *fakeCatalog) DistinctModels(context.Context) ([]string, error) { return f.models, nil }

func (f *fakeCatalog) DistinctStorages(_ context.Context, model string) ([]int, error) {
	return f.storages[model], nil
}

func (f *fakeCatalog) DistinctColors(_ context.Context, model string, storage int) ([]string, error) {
	return f.colors[model][storage], nil
}

func (f *fakeCatalog) ByID(_ context.Context, id int64) (*domain.Phone, error) {
	for i := range f.phones {
		if f.phones[i].ID == id {
			return &f.phones[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeCatalog) ByAttrs(_ context.Context, model string, storage int, color string) (*domain.Phone, error) {
	for i := range f.phones {
		p := f.phones[i]
		if p.Model == model && p.Storage == storage && p.Color == color {
			return &f.phones[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeCatalog) Add(context.Context, domain.Phone) (int64, error) { return 0, nil }
func (f *fakeCatalog) Delete(context.Context, int64) error              { return nil }
func (f *fakeCatalog) All(context.Context) ([]domain.Phone, error)      { return f.phones, nil }

type sentMsg struct {
	what any
	opts []any
}

// testCtx is a recording tele.Context. Only the methods the handlers touch
// are implemented; anything else panics via the embedded nil interface.
type testCtx struct {
	tele.Context

	user *tele.User
	data string
	text string

	store    map[string]any
	sends    []sentMsg
	edits    []sentMsg
	responds []*tele.CallbackResponse
	deleted  bool
}

func newTestCtx(userID int64, data string) *testCtx {
	return &testCtx{
		user:  &tele.User{ID: userID, FirstName: "Тест"},
		data:  data,
		store: map[string]any{},
	}
}

func (c *testCtx) Update() tele.Update      { return tele.Update{ID: 1} }
func (c *testCtx) Message() *tele.Message   { return nil }
func (c *testCtx) Callback() *tele.Callback { return &tele.Callback{Data: c.data} }
func (c *testCtx) Sender() *tele.User       { return c.user }
func (c *testCtx) Chat() *tele.Chat         { return &tele.Chat{ID: c.user.ID} }
func (c *testCtx) Text() string             { return c.text }
func (c *testCtx) Delete() error            { c.deleted = true; return nil }
func (c *testCtx) Get(key string) any       { return c.store[key] }
func (c *testCtx) Set(key string, val any)  { c.store[key] = val }

func (c *testCtx) Send(what any, opts ...any) error {
	c.sends = append(c.sends, sentMsg{what: what, opts: opts})
	return nil
}

func (c *testCtx) Edit(what any, opts ...any) error {
	c.edits = append(c.edits, sentMsg{what: what, opts: opts})
	return nil
}

func (c *testCtx) EditOrSend(what any, opts ...any) error {
	return c.Edit(what, opts...)
}

func (c *testCtx) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	c.responds = append(c.responds, resp...)
	return nil
}

func msgText(t *testing.T, m sentMsg) string {
	t.Helper()
	s, ok := m.what.(string)
	if !ok {
		t.Fatalf("message payload is %T, want string", m.what)
	}
	return s
}

func lastEditText(t *testing.T, c *testCtx) string {
	t.Helper()
	if len(c.edits) == 0 {
		t.Fatal("no edit recorded")
	}
	return msgText(t, c.edits[len(c.edits)-1])
}

func lastSendText(t *testing.T, c *testCtx) string {
	t.Helper()
	if len(c.sends) == 0 {
		t.Fatal("no send recorded")
	}
	return msgText(t, c.sends[len(c.sends)-1])
}

func wizardFixture() (*Handlers, *fakeCatalog) {
	cat := &fakeCatalog{
		models:   []string{"iPhone 14 Pro", "iPhone 13 mini"},
		storages: map[string][]int{"iPhone 14 Pro": {128, 256}},
		colors: map[string]map[int][]string{
			"iPhone 14 Pro": {256: {"Deep Purple", "Silver"}},
		},
		phones: []domain.Phone{
			{ID: 7, Model: "iPhone 14 Pro", Storage: 256, Color: "Deep Purple", Price: 109990, Quantity: 3},
		},
	}
	h := New(state.NewMemoryManager(), cat, nil, nil,
		config.ShopConfig{ManagerContact: "@manager"}, config.BroadcastConfig{})
	return h, cat
}

func TestBackRestoresPreviousStepPrompt(t *testing.T) {
	h, _ := wizardFixture()
	const uid = int64(100)

	// Walk forward to the confirmation card, capturing each prompt as shown.
	entry := newTestCtx(uid, "show_catalog")
	if err := h.WizardEntry(entry); err != nil {
		t.Fatal(err)
	}
	modelPrompt := lastEditText(t, entry)

	pick := newTestCtx(uid, "model:iPhone 14 Pro")
	if err := h.ModelChosen(pick); err != nil {
		t.Fatal(err)
	}
	storagePrompt := lastEditText(t, pick)

	size := newTestCtx(uid, "storage:256")
	if err := h.StorageChosen(size); err != nil {
		t.Fatal(err)
	}
	colorPrompt := lastEditText(t, size)

	color := newTestCtx(uid, "color:Deep Purple")
	if err := h.ColorChosen(color); err != nil {
		t.Fatal(err)
	}
	if got := h.fsm.GetState(uid); got != StateConfirmingBuy {
		t.Fatalf("state after color = %q", got)
	}

	// Reverse from the card: the color prompt comes back exactly, the color
	// choice is dropped, model and storage survive.
	back := newTestCtx(uid, "back:colors")
	if err := h.Back(back); err != nil {
		t.Fatal(err)
	}
	if got := lastSendText(t, back); got != colorPrompt {
		t.Fatalf("back:colors prompt = %q, want %q", got, colorPrompt)
	}
	if got := h.fsm.GetState(uid); got != StateChoosingColor {
		t.Fatalf("state after back:colors = %q", got)
	}
	if _, ok := h.fsm.GetTemp(uid, keyColor); ok {
		t.Error("back:colors kept the reversed color choice")
	}
	if v, ok := h.fsm.GetTemp(uid, keyModel); !ok || v != "iPhone 14 Pro" {
		t.Errorf("back:colors dropped the model choice: %v", v)
	}
	if v, ok := h.fsm.GetTemp(uid, keyStorage); !ok || v != 256 {
		t.Errorf("back:colors dropped the storage choice: %v", v)
	}

	// One more step back restores the storage prompt.
	back = newTestCtx(uid, "back:storages")
	if err := h.Back(back); err != nil {
		t.Fatal(err)
	}
	if got := lastEditText(t, back); got != storagePrompt {
		t.Fatalf("back:storages prompt = %q, want %q", got, storagePrompt)
	}
	if _, ok := h.fsm.GetTemp(uid, keyStorage); ok {
		t.Error("back:storages kept the reversed storage choice")
	}
	if v, ok := h.fsm.GetTemp(uid, keyModel); !ok || v != "iPhone 14 Pro" {
		t.Errorf("back:storages dropped the model choice: %v", v)
	}

	// And back to the first step.
	back = newTestCtx(uid, "back:models")
	if err := h.Back(back); err != nil {
		t.Fatal(err)
	}
	if got := lastEditText(t, back); got != modelPrompt {
		t.Fatalf("back:models prompt = %q, want %q", got, modelPrompt)
	}
	if got := h.fsm.GetState(uid); got != StateChoosingModel {
		t.Fatalf("state after back:models = %q", got)
	}
	if _, ok := h.fsm.GetTemp(uid, keyModel); ok {
		t.Error("back:models kept the reversed model choice")
	}
}

func TestBackOutOfOrderShowsStaleToast(t *testing.T) {
	h, _ := wizardFixture()
	const uid = int64(100)

	entry := newTestCtx(uid, "show_catalog")
	if err := h.WizardEntry(entry); err != nil {
		t.Fatal(err)
	}

	// back:storages is only valid from the color step.
	back := newTestCtx(uid, "back:storages")
	if err := h.Back(back); err != nil {
		t.Fatal(err)
	}
	if len(back.edits) != 0 || len(back.sends) != 0 {
		t.Fatal("stale back press must not re-render anything")
	}
	if len(back.responds) == 0 || back.responds[0].Text != staleSessionMsg {
		t.Fatalf("responds = %+v, want stale-session toast", back.responds)
	}
	if got := h.fsm.GetState(uid); got != StateChoosingModel {
		t.Fatalf("stale back press moved state to %q", got)
	}
}

package state

import "testing"

func TestMemoryManagerLifecycle(t *testing.T) {
	mgr := NewMemoryManager()
	const uid int64 = 7

	if mgr.HasState(uid) {
		t.Fatal("fresh manager reports active state")
	}
	if got := mgr.GetState(uid); got != StateIdle {
		t.Fatalf("initial state = %q", got)
	}

	mgr.SetState(uid, State("choosing_model"))
	if !mgr.InProgress(uid) {
		t.Fatal("state not in progress after SetState")
	}

	mgr.SetTemp(uid, "model", "iPhone 14")
	if v, ok := mgr.GetTemp(uid, "model"); !ok || v.(string) != "iPhone 14" {
		t.Fatalf("temp = %v, %v", v, ok)
	}

	mgr.ClearTemp(uid, "model")
	if _, ok := mgr.GetTemp(uid, "model"); ok {
		t.Fatal("temp survives ClearTemp")
	}

	mgr.Clear(uid)
	if mgr.InProgress(uid) {
		t.Fatal("state survives Clear")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	mgr := NewMemoryManager()
	mgr.SetState(1, State("typing_text"))
	mgr.SetTemp(1, "text", "hello")

	if mgr.HasState(2) {
		t.Fatal("state leaked across users")
	}
	if _, ok := mgr.GetTemp(2, "text"); ok {
		t.Fatal("temp data leaked across users")
	}
}

func TestGetTempInt64(t *testing.T) {
	mgr := NewMemoryManager()
	mgr.SetTemp(3, "phone_id", int64(42))
	if v, ok := mgr.GetTempInt64(3, "phone_id"); !ok || v != 42 {
		t.Fatalf("GetTempInt64 = %d, %v", v, ok)
	}
	mgr.SetTemp(3, "model", "x")
	if _, ok := mgr.GetTempInt64(3, "model"); ok {
		t.Fatal("string asserted as int64")
	}
}

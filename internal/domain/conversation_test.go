package domain

import (
	"testing"
	"time"
)

func TestUserInfoFirstWriteWins(t *testing.T) {
	var u UserInfo

	if !u.Set(FieldAge, 30) {
		t.Fatal("first write should succeed")
	}
	if u.Set(FieldAge, 99) {
		t.Fatal("second write should be refused")
	}
	if *u.Age != 30 {
		t.Fatalf("age overwritten: %d", *u.Age)
	}
}

func TestNextMissingFollowsPriorityOrder(t *testing.T) {
	var u UserInfo

	if f := u.NextMissing(); f != FieldAge {
		t.Fatalf("expected age first, got %s", f)
	}
	u.Set(FieldAge, 30)
	if f := u.NextMissing(); f != FieldLocation {
		t.Fatalf("expected location next, got %s", f)
	}
	u.Set(FieldLocation, "NY")
	if f := u.NextMissing(); f != FieldIncome {
		t.Fatalf("expected income last, got %s", f)
	}
	u.Set(FieldIncome, 50000)
	if f := u.NextMissing(); f != "" {
		t.Fatalf("expected complete, got %s", f)
	}
	if !u.Complete() {
		t.Fatal("expected Complete()")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	conv := NewConversation("th", time.Now())
	conv.Append(RoleUser, "hi", time.Now())
	conv.UserInfo.Set(FieldAge, 30)

	cp := conv.Clone()
	cp.Append(RoleAgent, "hello", time.Now())
	*cp.UserInfo.Age = 99
	cp.DialogState = StateFinished

	if len(conv.Messages) != 1 {
		t.Fatalf("original messages mutated: %d", len(conv.Messages))
	}
	if *conv.UserInfo.Age != 30 {
		t.Fatalf("original age mutated: %d", *conv.UserInfo.Age)
	}
	if conv.DialogState == StateFinished {
		t.Fatal("original state mutated")
	}
}

package tabs

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, def := range []model.FieldDefinition{
		{Name: "firstName", Tab: model.TabProfile},
		{Name: "domainPref", Tab: model.TabInterest},
		{Name: "age", Tab: model.TabProfile},
		{Name: "salary", Tab: model.TabSetting},
	} {
		if _, err := reg.Register(def); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return reg
}

func names(defs []model.FieldDefinition) []model.FieldName {
	var out []model.FieldName
	for _, def := range defs {
		out = append(out, def.Name)
	}
	return out
}

func TestController_ActiveFields(t *testing.T) {
	ctrl := New(newRegistry(t))
	if ctrl.Active() != model.TabProfile {
		t.Fatalf("first tab should start active, got %s", ctrl.Active())
	}
	if diff := cmp.Diff([]model.FieldName{"firstName", "age"}, names(ctrl.ActiveFields())); diff != "" {
		t.Fatalf("profile fields mismatch (-want +got):\n%s", diff)
	}

	if err := ctrl.SelectTab(model.TabInterest); err != nil {
		t.Fatalf("select: %v", err)
	}
	if diff := cmp.Diff([]model.FieldName{"domainPref"}, names(ctrl.ActiveFields())); diff != "" {
		t.Fatalf("interest fields mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SelectUnknownTab(t *testing.T) {
	ctrl := New(newRegistry(t))
	err := ctrl.SelectTab("profle")
	if !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "profile"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
	if ctrl.Active() != model.TabProfile {
		t.Fatalf("active tab changed on error")
	}
}

func TestController_SubmitVisibleOnLastTab(t *testing.T) {
	ctrl := New(newRegistry(t))
	if ctrl.SubmitVisible() {
		t.Fatalf("submit should be hidden on the first tab")
	}
	ctrl.Next()
	if got := ctrl.Next(); got != model.TabSetting {
		t.Fatalf("expected setting, got %s", got)
	}
	if !ctrl.SubmitVisible() {
		t.Fatalf("submit should be visible on the last tab")
	}
	if got := ctrl.Next(); got != model.TabSetting {
		t.Fatalf("next should clamp at the last tab, got %s", got)
	}
	ctrl.Previous()
	ctrl.Previous()
	if got := ctrl.Previous(); got != model.TabProfile {
		t.Fatalf("previous should clamp at the first tab, got %s", got)
	}
}

func TestController_CustomOrderDropsDuplicates(t *testing.T) {
	ctrl := New(newRegistry(t), "account", "account", "review")
	if diff := cmp.Diff([]model.TabID{"account", "review"}, ctrl.Tabs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if len(ctrl.ActiveFields()) != 0 {
		t.Fatalf("no fields belong to the account tab")
	}
}

package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/model"
)

func newController(t *testing.T, options ...Option) *Controller {
	t.Helper()
	c, err := NewController(options...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func typeInto(t *testing.T, c *Controller, field model.FieldName, value string) {
	t.Helper()
	if err := c.OnFieldChange(field, value); err != nil {
		t.Fatalf("change %s: %v", field, err)
	}
}

func TestController_InitialState(t *testing.T) {
	c := newController(t)
	if c.State() != StateEditing {
		t.Fatalf("expected editing, got %s", c.State())
	}
	if c.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %v", c.Errors())
	}
	if _, ok := c.Submitted(); ok {
		t.Fatalf("expected no snapshot before submit")
	}
}

func TestController_ShortFirstNameYieldsSingleError(t *testing.T) {
	for _, value := range []string{"a", "ab", "abc", "abcd"} {
		c := newController(t)
		typeInto(t, c, model.FieldFirstName, value)

		if c.ErrorCount() != 1 {
			t.Fatalf("%q: expected exactly one error, got %v", value, c.Errors())
		}
		if got := c.ErrorFor(model.FieldFirstName); !strings.Contains(got, "must have at least 4 characters") {
			t.Fatalf("%q: unexpected message %q", value, got)
		}
	}
}

func TestController_TypingKeystrokesClearsErrorAtFiveCharacters(t *testing.T) {
	c := newController(t)
	typed := ""
	for _, r := range "George" {
		typed += string(r)
		typeInto(t, c, model.FieldFirstName, typed)
		wantErr := len([]rune(typed)) < 5
		if gotErr := c.ErrorFor(model.FieldFirstName) != ""; gotErr != wantErr {
			t.Fatalf("after %q: want error=%v, got %v", typed, wantErr, gotErr)
		}
	}
}

func TestController_SubmitEmptyYieldsThreeErrors(t *testing.T) {
	c := newController(t)
	if c.OnSubmit() {
		t.Fatalf("expected submit to be refused")
	}

	want := Errors{
		model.FieldFirstName: "firstName is a required field",
		model.FieldLastName:  "lastName is a required field",
		model.FieldEmail:     "email is a required field",
	}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if c.State() != StateEditing {
		t.Fatalf("expected editing, got %s", c.State())
	}
}

func TestController_SubmitWithoutEmailYieldsOneError(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldFirstName, "Milhouse")
	typeInto(t, c, model.FieldLastName, "McGoon")

	if c.OnSubmit() {
		t.Fatalf("expected submit to be refused")
	}
	if c.ErrorCount() != 1 || c.ErrorFor(model.FieldEmail) == "" {
		t.Fatalf("expected only the email error, got %v", c.Errors())
	}
}

func TestController_InvalidEmailReportedOnChange(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldEmail, "notarealemail")

	if got := c.ErrorFor(model.FieldEmail); got != "email must be a valid email address" {
		t.Fatalf("unexpected email error %q", got)
	}
	if c.State() != StateEditing {
		t.Fatalf("change must not submit")
	}
}

func TestController_EmptyEmailOnChangeHasNoError(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldEmail, "bad")
	typeInto(t, c, model.FieldEmail, "")
	if c.ErrorCount() != 0 {
		t.Fatalf("clearing email should clear its error, got %v", c.Errors())
	}
}

func TestController_MissingLastNameOnSubmit(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldFirstName, "George")
	typeInto(t, c, model.FieldEmail, "email@website.com")
	c.OnSubmit()

	got := strings.ToLower(c.ErrorFor(model.FieldLastName))
	if !strings.Contains(got, "lastname is a required field") {
		t.Fatalf("unexpected lastName error %q", got)
	}
}

func TestController_ChangeLeavesOtherErrorsUntouched(t *testing.T) {
	c := newController(t)
	c.OnSubmit()
	typeInto(t, c, model.FieldFirstName, "George")

	want := Errors{
		model.FieldLastName: "lastName is a required field",
		model.FieldEmail:    "email is a required field",
	}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestController_ValidSubmitCapturesSnapshot(t *testing.T) {
	var hooked []Values
	c := newController(t, WithSubmitHook(func(v Values) { hooked = append(hooked, v) }))
	typeInto(t, c, model.FieldFirstName, "George")
	typeInto(t, c, model.FieldLastName, "Smith")
	typeInto(t, c, model.FieldEmail, "funGuy@gmail.com")

	if !c.OnSubmit() {
		t.Fatalf("expected submit to be accepted, errors %v", c.Errors())
	}

	want := Values{FirstName: "George", LastName: "Smith", Email: "funGuy@gmail.com"}
	got, ok := c.Submitted()
	if !ok {
		t.Fatalf("expected snapshot")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if got.HasMessage() {
		t.Fatalf("message should be absent")
	}
	if c.State() != StateSubmitted {
		t.Fatalf("expected submitted, got %s", c.State())
	}
	if diff := cmp.Diff([]Values{want}, hooked); diff != "" {
		t.Fatalf("hook mismatch (-want +got):\n%s", diff)
	}

	// Values are retained after submit.
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values should be retained (-want +got):\n%s", diff)
	}
}

func TestController_SnapshotIsIndependentOfLaterEdits(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldFirstName, "George")
	typeInto(t, c, model.FieldLastName, "Smith")
	typeInto(t, c, model.FieldEmail, "funGuy@gmail.com")
	typeInto(t, c, model.FieldMessage, "Hey, look! Here is a message!")
	c.OnSubmit()

	typeInto(t, c, model.FieldFirstName, "Gil")

	got, _ := c.Submitted()
	if got.FirstName != "George" || got.Message != "Hey, look! Here is a message!" {
		t.Fatalf("snapshot changed after edit: %+v", got)
	}
}

func TestController_FailedResubmitKeepsPreviousSnapshot(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldFirstName, "George")
	typeInto(t, c, model.FieldLastName, "Smith")
	typeInto(t, c, model.FieldEmail, "funGuy@gmail.com")
	c.OnSubmit()

	typeInto(t, c, model.FieldLastName, "")
	if c.OnSubmit() {
		t.Fatalf("expected resubmit to be refused")
	}
	if c.State() != StateSubmitted {
		t.Fatalf("expected state to stay submitted, got %s", c.State())
	}
	got, _ := c.Submitted()
	if got.LastName != "Smith" {
		t.Fatalf("snapshot must not be partially updated: %+v", got)
	}
}

func TestController_ResubmitTakesNewSnapshot(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldFirstName, "George")
	typeInto(t, c, model.FieldLastName, "Smith")
	typeInto(t, c, model.FieldEmail, "funGuy@gmail.com")
	c.OnSubmit()

	typeInto(t, c, model.FieldLastName, "Jones")
	if !c.OnSubmit() {
		t.Fatalf("expected resubmit to be accepted")
	}
	got, _ := c.Submitted()
	if got.LastName != "Jones" {
		t.Fatalf("expected new snapshot, got %+v", got)
	}
}

func TestController_UnknownField(t *testing.T) {
	c := newController(t)
	err := c.OnFieldChange(model.FieldName("phone"), "555")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestController_Reset(t *testing.T) {
	c := newController(t)
	typeInto(t, c, model.FieldFirstName, "ab")
	c.OnSubmit()
	c.Reset()

	if c.State() != StateEditing || c.ErrorCount() != 0 {
		t.Fatalf("reset did not clear state: %s %v", c.State(), c.Errors())
	}
	if diff := cmp.Diff(Values{}, c.Values()); diff != "" {
		t.Fatalf("reset did not clear values (-want +got):\n%s", diff)
	}
}

func TestController_InitialValuesAreNotValidated(t *testing.T) {
	c := newController(t, WithInitialValues(Values{FirstName: "ab"}))
	if c.ErrorCount() != 0 {
		t.Fatalf("prefill should not raise errors, got %v", c.Errors())
	}
	if c.Values().FirstName != "ab" {
		t.Fatalf("prefill not applied")
	}
}

func TestController_HandleEvent(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	events := []Event{
		{Kind: EventChange, Field: model.FieldFirstName, Value: "George"},
		{Kind: EventChange, Field: model.FieldLastName, Value: "Smith"},
		{Kind: EventChange, Field: model.FieldEmail, Value: "funGuy@gmail.com"},
		{Kind: EventSubmit},
	}
	for _, ev := range events {
		if err := c.HandleEvent(ctx, ev); err != nil {
			t.Fatalf("handle %s: %v", ev.Kind, err)
		}
	}
	if c.State() != StateSubmitted {
		t.Fatalf("expected submitted, got %s", c.State())
	}

	if err := c.HandleEvent(ctx, Event{Kind: "blur"}); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := c.HandleEvent(cancelled, Event{Kind: EventReset}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if c.State() != StateSubmitted {
		t.Fatalf("cancelled event must not apply")
	}
}

func TestController_CustomFormRulesCompile(t *testing.T) {
	_, err := NewController(WithForm(model.FormModel{
		Fields: []model.Field{{Name: model.FieldFirstName, Validations: []model.ValidationRule{{Kind: "bogus"}}}},
	}))
	if err == nil {
		t.Fatalf("expected compile error for unsupported rule")
	}
}

func TestErrors_Ordered(t *testing.T) {
	errs := Errors{
		model.FieldEmail:     "e",
		model.FieldFirstName: "f",
		model.FieldLastName:  "l",
	}
	got := errs.Ordered(model.ContactForm())
	want := []model.FieldName{model.FieldFirstName, model.FieldLastName, model.FieldEmail}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesFromMap(t *testing.T) {
	got := ValuesFromMap(map[string]string{
		"firstName": "George",
		"email":     "funGuy@gmail.com",
		"phone":     "ignored",
	})
	want := Values{FirstName: "George", Email: "funGuy@gmail.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

package tag

import "testing"

type endpoint struct {
	Method  string `default:"GET"`
	Timeout int    `default:"30"`
}

type settings struct {
	Name      string  `default:"app"`
	Ratio     float64 `default:"0.5"`
	Enabled   bool    `default:"true"`
	Retries   uint    `default:"2"`
	Endpoint  endpoint
	Endpoints []endpoint
}

func TestApplyDefaults(t *testing.T) {
	s := &settings{}
	if err := ApplyDefaults(s); err != nil {
		t.Fatal(err)
	}

	if s.Name != "app" || s.Ratio != 0.5 || !s.Enabled || s.Retries != 2 {
		t.Errorf("scalar defaults not applied: %+v", s)
	}
	if s.Endpoint.Method != "GET" || s.Endpoint.Timeout != 30 {
		t.Errorf("nested struct defaults not applied: %+v", s.Endpoint)
	}
}

func TestApplyDefaultsKeepsExistingValues(t *testing.T) {
	s := &settings{Name: "custom", Endpoint: endpoint{Method: "POST"}}
	if err := ApplyDefaults(s); err != nil {
		t.Fatal(err)
	}

	if s.Name != "custom" {
		t.Errorf("existing value overwritten: %s", s.Name)
	}
	if s.Endpoint.Method != "POST" {
		t.Errorf("existing nested value overwritten: %s", s.Endpoint.Method)
	}
	if s.Endpoint.Timeout != 30 {
		t.Error("zero nested field should still get its default")
	}
}

func TestApplyDefaultsSliceElements(t *testing.T) {
	s := &settings{Endpoints: []endpoint{{}, {Method: "DELETE"}}}
	if err := ApplyDefaults(s); err != nil {
		t.Fatal(err)
	}

	if s.Endpoints[0].Method != "GET" {
		t.Errorf("slice element default not applied: %+v", s.Endpoints[0])
	}
	if s.Endpoints[1].Method != "DELETE" {
		t.Errorf("slice element value overwritten: %+v", s.Endpoints[1])
	}
}

func TestApplyDefaultsRejectsNonPointer(t *testing.T) {
	if err := ApplyDefaults(settings{}); err != ErrTargetMustBePointer {
		t.Errorf("expected ErrTargetMustBePointer, got %v", err)
	}

	var nilTarget *settings
	if err := ApplyDefaults(nilTarget); err != ErrTargetIsNil {
		t.Errorf("expected ErrTargetIsNil, got %v", err)
	}
}

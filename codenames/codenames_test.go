package codenames

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    Count
		wantErr bool
	}{
		{in: "0", want: Finite(0)},
		{in: " 3 ", want: Finite(3)},
		{in: "unlimited", want: Unlimited},
		{in: "UNLIMITED", want: Unlimited},
		{in: "1000", want: Finite(MaxCount)},
		{in: "1001", wantErr: true},
		{in: "9223372036854775807", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "lots", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseCount(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseCount(%q) = %v, want an error", test.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCount(%q): %v", test.in, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("ParseCount(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestCountArithmetic(t *testing.T) {
	if got := Finite(-4); !got.Zero() {
		t.Errorf("Finite(-4) = %v, want 0", got)
	}
	if got := Finite(1).Inc(); got.N() != 2 {
		t.Errorf("Finite(1).Inc() = %v, want 2", got)
	}
	if got := Finite(0).Dec(); !got.Zero() {
		t.Errorf("Finite(0).Dec() = %v, want 0", got)
	}
	if got := Unlimited.Dec().Inc(); !got.IsUnlimited() || got.Zero() {
		t.Errorf("Unlimited.Dec().Inc() = %v, want unlimited", got)
	}
	if got := Finite(math.MaxInt).Inc(); got.N() != math.MaxInt {
		t.Errorf("Finite(MaxInt).Inc() = %v, want it to stay put", got)
	}
	if n := Unlimited.N(); n != -1 {
		t.Errorf("Unlimited.N() = %d, want -1", n)
	}
	var zero Count
	if !zero.Equal(Finite(0)) {
		t.Error("the zero Count should be Finite(0)")
	}
}

func TestCountJSON(t *testing.T) {
	dat, err := json.Marshal([]Count{Finite(2), Unlimited})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if got, want := string(dat), `[2,"unlimited"]`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}

	var cs []Count
	if err := json.Unmarshal([]byte(`[4, "unlimited", "3"]`), &cs); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	want := []Count{Finite(4), Unlimited, Finite(3)}
	if diff := cmp.Diff(want, cs, cmp.AllowUnexported(Count{})); diff != "" {
		t.Errorf("unexpected counts (-want +got)\n%s", diff)
	}

	var c Count
	if err := json.Unmarshal([]byte(`"many"`), &c); err == nil {
		t.Error("expected an error for a bad count")
	}
}

func TestParseClue(t *testing.T) {
	c, err := ParseClue("  Muffins   unlimited ")
	if err != nil {
		t.Fatalf("ParseClue: %v", err)
	}
	if diff := cmp.Diff(&Clue{Word: "muffins", Count: Unlimited}, c, cmp.AllowUnexported(Count{})); diff != "" {
		t.Errorf("unexpected clue (-want +got)\n%s", diff)
	}
	if got := c.String(); got != "muffins unlimited" {
		t.Errorf("String() = %q", got)
	}

	for _, in := range []string{"muffins", "muffins 1 2", "muffins -1", ""} {
		if _, err := ParseClue(in); !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("ParseClue(%q) = %v, want InvalidNumber", in, err)
		}
	}
}

func TestParseTeam(t *testing.T) {
	tests := []struct {
		in   string
		want Team
	}{
		{"a", BlueTeam},
		{"Blue", BlueTeam},
		{"b", RedTeam},
		{" red ", RedTeam},
		{"", NoTeam},
		{"random", NoTeam},
		{"x", NoTeam},
	}
	for _, test := range tests {
		got, err := ParseTeam(test.in)
		if err != nil {
			t.Errorf("ParseTeam(%q): %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseTeam(%q) = %v, want %v", test.in, got, test.want)
		}
	}
	if _, err := ParseTeam("green"); err == nil {
		t.Error("ParseTeam(green) should fail")
	}
}

func TestTeams(t *testing.T) {
	for _, team := range Teams {
		if !team.Valid() {
			t.Errorf("%v isn't valid", team)
		}
		if team.Other().Other() != team {
			t.Errorf("%v.Other().Other() = %v", team, team.Other().Other())
		}
		a := AgentFor(team)
		if got, ok := a.Team(); !ok || got != team {
			t.Errorf("AgentFor(%v).Team() = %v, %t", team, got, ok)
		}
	}
	if NoTeam.Valid() || NoTeam.Other() != NoTeam {
		t.Error("NoTeam shouldn't be a real team")
	}
	if _, ok := Bystander.Team(); ok {
		t.Error("bystanders don't belong to a team")
	}
}

func TestTextMarshaling(t *testing.T) {
	in := struct {
		Team   Team           `json:"team"`
		Agents map[Agent]Role `json:"agents"`
		None   Team           `json:"none"`
	}{
		Team:   RedTeam,
		Agents: map[Agent]Role{Assassin: Hinter, BlueAgent: Guesser},
		None:   NoTeam,
	}
	dat, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	want := `{"team":"RED","agents":{"ASSASSIN":"HINTER","BLUE":"GUESSER"},"none":""}`
	if string(dat) != want {
		t.Errorf("json = %s, want %s", dat, want)
	}

	out := in
	out.Agents = nil
	out.Team = BlueTeam
	if err := json.Unmarshal(dat, &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip changed things (-want +got)\n%s", diff)
	}

	var a Agent
	if err := a.UnmarshalText([]byte("SPY")); err == nil {
		t.Error("expected an error for an unknown agent")
	}
	if _, err := Team(7).MarshalText(); err == nil {
		t.Error("expected an error for an unknown team")
	}
}

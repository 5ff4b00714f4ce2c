package expression

import "testing"

func TestParseCallNoArgs(t *testing.T) {
	call, err := ParseCall("ready()")
	if err != nil {
		t.Fatal(err)
	}
	if call.Function != "ready" || len(call.Args) != 0 {
		t.Errorf("got %+v", call)
	}
}

func TestParseCallMixedArgs(t *testing.T) {
	call, err := ParseCall("delay(gpio17, 500ms, -3)")
	if err != nil {
		t.Fatal(err)
	}
	if call.Function != "delay" {
		t.Fatalf("Function = %q", call.Function)
	}
	if len(call.Args) != 3 {
		t.Fatalf("got %d args, want 3", len(call.Args))
	}
	if call.Args[0].Kind != KindString || call.Args[0].Str != "gpio17" {
		t.Errorf("arg0 = %+v", call.Args[0])
	}
	if call.Args[1].Kind != KindInt || call.Args[1].Int != int64(500e6) {
		t.Errorf("arg1 = %+v, want 500ms in nanoseconds", call.Args[1])
	}
	if call.Args[2].Kind != KindInt || call.Args[2].Int != -3 {
		t.Errorf("arg2 = %+v", call.Args[2])
	}
}

func TestParseCallDurationSuffixes(t *testing.T) {
	cases := map[string]int64{
		"f(1min)": int64(60e9),
		"f(1h)":   int64(3600e9),
		"f(1s)":   int64(1e9),
		"f(1ms)":  int64(1e6),
		"f(1us)":  int64(1e3),
		"f(1ns)":  1,
	}
	for in, want := range cases {
		call, err := ParseCall(in)
		if err != nil {
			t.Errorf("ParseCall(%q): %v", in, err)
			continue
		}
		if len(call.Args) != 1 || call.Args[0].Int != want {
			t.Errorf("ParseCall(%q) = %+v, want Int=%d", in, call.Args, want)
		}
	}
}

func TestParseCallWhitespaceTolerant(t *testing.T) {
	call, err := ParseCall("  trigger( a , 1 )  ")
	if err != nil {
		t.Fatal(err)
	}
	if call.Function != "trigger" || len(call.Args) != 2 {
		t.Errorf("got %+v", call)
	}
}

func TestParseCallRejectsMissingParen(t *testing.T) {
	if _, err := ParseCall("ready"); err == nil {
		t.Error("expected error for missing '('")
	}
}

func TestParseCallRejectsTrailingCharacters(t *testing.T) {
	if _, err := ParseCall("ready() extra"); err == nil {
		t.Error("expected error for trailing characters")
	}
}

func TestParseCallRejectsEmptyArgument(t *testing.T) {
	if _, err := ParseCall("f(a,)"); err == nil {
		t.Error("expected error for trailing comma with no argument")
	}
}

func TestParseCallRejectsLeadingDigitIdentifier(t *testing.T) {
	if _, err := ParseCall("9invalid()"); err == nil {
		t.Error("expected error for identifier starting with a digit")
	}
}

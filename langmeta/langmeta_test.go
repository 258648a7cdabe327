package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pt_br", want: "pt-BR"},
		{in: " EN-us ", want: "en-US"},
		{in: "ja", want: "ja"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("native and english names", func(t *testing.T) {
		got := Resolve("ja")
		if got.Name != "日本語" || got.English != "Japanese" {
			t.Fatalf("unexpected result: %#v", got)
		}
		if got.Flag != "🇯🇵" {
			t.Fatalf("Flag = %q, want inferred JP flag", got.Flag)
		}
	})

	t.Run("explicit region", func(t *testing.T) {
		got := Resolve("pt_BR")
		if got.Flag != "🇧🇷" || got.English == "pt_BR" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("not a tag")
		if got.Name != "not a tag" || got.English != "not a tag" || got.Flag != "" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestLabel(t *testing.T) {
	if got := Label("en"); got != "English" {
		t.Fatalf("Label(en) = %q, want %q", got, "English")
	}
	if got := Label("ja"); got != "日本語 (Japanese)" {
		t.Fatalf("Label(ja) = %q, want %q", got, "日本語 (Japanese)")
	}
}

func TestFlagFromRegion(t *testing.T) {
	if got := FlagFromRegion("us"); got != "🇺🇸" {
		t.Fatalf("FlagFromRegion(us) = %q, want %q", got, "🇺🇸")
	}
	if got := FlagFromRegion("USA"); got != "" {
		t.Fatalf("FlagFromRegion(USA) = %q, want empty", got)
	}
	if got := FlagFromRegion("1A"); got != "" {
		t.Fatalf("FlagFromRegion(1A) = %q, want empty", got)
	}
}

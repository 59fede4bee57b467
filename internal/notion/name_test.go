package notion

import (
	"strings"
	"testing"
)

const (
	hexID    = "2d41ab7b61d14cec885357ab17d48536"
	dashedID = "2d41ab7b-61d1-4cec-8853-57ab17d48536"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"uuid suffix", "Overview " + hexID, "Overview"},
		{"dashed uuid suffix", "Overview " + dashedID, "Overview"},
		{"underscore before uuid", "Image_file_" + hexID, "Image file"},
		{"hyphen before uuid", "My-Page-" + hexID, "My-Page"},
		{"tab before uuid", "Page\t" + hexID, "Page"},
		{"newline before uuid", "Page\n" + hexID, "Page"},
		{"no uuid", "Plain Name", "Plain Name"},
		{"illegal characters", `What? A "quote": here`, "What A quote here"},
		{"illegal then uuid", "Q&A: Sessions " + hexID, "Q&A Sessions"},
		{"collapse whitespace", "Too   many    spaces", "Too many spaces"},
		{"underscores collapse", "a__b___c", "a b c"},
		{"uuid only keeps name", hexID, hexID},
		{"dashed uuid only keeps name", dashedID, dashedID},
		{"illegal only", `???`, "untitled"},
		{"empty", "", "untitled"},
		{"mid-name hex run stays", "Page " + hexID + " Notes", "Page " + hexID + " Notes"},
		{"short hex run stays", "Overview 789abc", "Overview 789abc"},
		{"trailing space after uuid", "Overview " + hexID + " ", "Overview"},
		{"double uuid", "Page " + hexID + " " + hexID, "Page"},
		{"hex-like date stays", "2024-01-01 Daily", "2024-01-01 Daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.raw)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Overview " + hexID,
		"Image_file_" + hexID,
		hexID,
		dashedID,
		`Weird: "name" with/illegal|chars?`,
		"Page " + hexID + " ",
		"Page\t" + hexID,
		"Page\n" + hexID,
		"???",
		"",
		"Plain Name",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestCleanNeverIllegal(t *testing.T) {
	inputs := []string{
		`a*b"c/d\e<f>g:h|i?j`,
		"Overview " + hexID,
		hexID,
		"",
	}
	for _, in := range inputs {
		got := Clean(in)
		if got == "" {
			t.Errorf("Clean(%q) returned empty string", in)
		}
		if strings.ContainsAny(got, illegalChars) {
			t.Errorf("Clean(%q) = %q still contains illegal characters", in, got)
		}
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Overview " + hexID + ".md", "Overview.md"},
		{"Image_file_" + hexID + ".png", "Image file.png"},
		{"data_" + hexID + ".csv", "data.csv"},
		{"plain.pdf", "plain.pdf"},
		{"no extension " + hexID, "no extension"},
		{".gitignore", ".gitignore"},
		{"archive.tar.gz", "archive.tar.gz"},
	}
	for _, tt := range tests {
		got := CleanFileName(tt.raw)
		if got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"Folder " + hexID + "/Page " + hexID + ".md", "Folder/Page.md"},
		{"../Folder " + hexID + "/image.png", "../Folder/image.png"},
		{"./a/b.md", "./a/b.md"},
		{hexID + "/note.md", hexID + "/note.md"},
	}
	for _, tt := range tests {
		got := CleanPath(tt.rel)
		if got != tt.want {
			t.Errorf("CleanPath(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestTrimIdentifier(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		trimmed bool
	}{
		{"Page " + hexID, "Page", true},
		{"Page_" + hexID, "Page", true},
		{"Page-" + dashedID, "Page", true},
		{hexID, "", true},
		{"Page", "Page", false},
		{"Page 1234", "Page 1234", false},
	}
	for _, tt := range tests {
		got, trimmed := TrimIdentifier(tt.in)
		if got != tt.want || trimmed != tt.trimmed {
			t.Errorf("TrimIdentifier(%q) = (%q, %v), want (%q, %v)",
				tt.in, got, trimmed, tt.want, tt.trimmed)
		}
	}
}

package distribution

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// fakeRewrite returns a canned completion or error.
type fakeRewrite struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeRewrite) Complete(_ context.Context, systemPrompt, _ string) (string, error) {
	f.prompts = append(f.prompts, systemPrompt)
	return f.out, f.err
}

var canonical = CanonicalFields{
	Title:            "Summit Ends With Accord",
	ShortDescription: "Delegates signed the accord.",
	Content:          "<p>Delegates signed the accord.</p>",
}

func TestPassthroughDerivesMetaTitleAndSlug(t *testing.T) {
	g := NewGenerator(nil, zap.NewNop())

	v := g.Passthrough(canonical)
	if v.Title != canonical.Title || v.Content != canonical.Content {
		t.Fatalf("text fields must pass through unchanged: %+v", v)
	}
	if v.MetaTitle != canonical.Title {
		t.Errorf("meta title = %q, want canonical title", v.MetaTitle)
	}
	if v.Slug != "summit-ends-with-accord" {
		t.Errorf("slug = %q, want summit-ends-with-accord", v.Slug)
	}
}

func TestGenerateParsesStrictJSON(t *testing.T) {
	client := &fakeRewrite{out: `{"title":"Accord Sealed at Summit","short_description":"A deal is done.","description":"<p>A deal is done.</p>","meta_title":"Accord Sealed","slug":"accord-sealed"}`}
	g := NewGenerator(client, zap.NewNop())

	v := g.Generate(context.Background(), canonical, "house style", "alpha")
	if v.Title != "Accord Sealed at Summit" {
		t.Errorf("title = %q", v.Title)
	}
	if v.Slug != "accord-sealed" {
		t.Errorf("slug = %q", v.Slug)
	}
	if len(client.prompts) != 1 || client.prompts[0] != "house style" {
		t.Errorf("style prompt not forwarded: %v", client.prompts)
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	client := &fakeRewrite{out: "```json\n{\"title\":\"Fenced Title\",\"short_description\":\"s\",\"description\":\"d\",\"meta_title\":\"Fenced Title\",\"slug\":\"fenced-title\"}\n```"}
	g := NewGenerator(client, zap.NewNop())

	v := g.Generate(context.Background(), canonical, "", "alpha")
	if v.Title != "Fenced Title" {
		t.Errorf("title = %q, want Fenced Title", v.Title)
	}
}

func TestGenerateExtractsEmbeddedObject(t *testing.T) {
	client := &fakeRewrite{out: `Here is your rewrite: {"title":"Embedded","short_description":"s","description":"d","meta_title":"Embedded","slug":"embedded"} hope it helps`}
	g := NewGenerator(client, zap.NewNop())

	v := g.Generate(context.Background(), canonical, "", "alpha")
	if v.Title != "Embedded" {
		t.Errorf("title = %q, want Embedded", v.Title)
	}
}

func TestGenerateFallsBackOnGarbage(t *testing.T) {
	client := &fakeRewrite{out: "sorry, I cannot produce JSON today"}
	g := NewGenerator(client, zap.NewNop())

	v := g.Generate(context.Background(), canonical, "", "alpha")
	if v != g.Passthrough(canonical) {
		t.Fatalf("garbage output must fall back to passthrough: %+v", v)
	}
}

func TestGenerateFallsBackOnTransportError(t *testing.T) {
	client := &fakeRewrite{err: errors.New("connection refused")}
	g := NewGenerator(client, zap.NewNop())

	v := g.Generate(context.Background(), canonical, "", "alpha")
	if v != g.Passthrough(canonical) {
		t.Fatalf("transport error must fall back to passthrough: %+v", v)
	}
}

func TestGenerateInheritsMissingKeys(t *testing.T) {
	client := &fakeRewrite{out: `{"title":"Partial Rewrite"}`}
	g := NewGenerator(client, zap.NewNop())

	v := g.Generate(context.Background(), canonical, "", "alpha")
	if v.Title != "Partial Rewrite" {
		t.Errorf("title = %q", v.Title)
	}
	if v.ShortDescription != canonical.ShortDescription {
		t.Errorf("short description should inherit canonical, got %q", v.ShortDescription)
	}
	if v.Content != canonical.Content {
		t.Errorf("content should inherit canonical, got %q", v.Content)
	}
	// Slug re-derives from the inherited meta title.
	if v.Slug != "summit-ends-with-accord" {
		t.Errorf("slug = %q", v.Slug)
	}
}

func TestGenerateNilClientIsPassthrough(t *testing.T) {
	g := NewGenerator(nil, zap.NewNop())
	v := g.Generate(context.Background(), canonical, "", "alpha")
	if v != g.Passthrough(canonical) {
		t.Fatalf("nil client must behave as passthrough: %+v", v)
	}
}

// Package articlerequest holds the request payloads for the article API.
// Bind runs after decoding, so every payload that reaches a handler is
// already normalized and validated.
package articlerequest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
	"github.com/SergeyParamoshkin/bollywood/internal/slug"
	"github.com/SergeyParamoshkin/bollywood/internal/validation"
)

var validate = validation.New()

var (
	ErrMissingFields = errors.New("missing required Article fields")
	ErrEmptyPatch    = errors.New("no Article fields to update")
)

const msgSlugNotDerived = "slug could not be derived from title, send one explicitly"

// ArticleRequest is the request payload for creating an Article.
//
// The client may send any JSON object; the id, createdAt and updatedAt it
// carries are ignored because the store assigns them.
type ArticleRequest struct {
	*model.Article

	ProtectedID        string      `json:"id"` // override 'id' json to have more control
	ProtectedCreatedAt interface{} `json:"createdAt"`
	ProtectedUpdatedAt interface{} `json:"updatedAt"`
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	// a.Article is nil if no Article fields are sent in the request.
	if a.Article == nil {
		return ErrMissingFields
	}

	a.ProtectedID = ""
	a.ProtectedCreatedAt = nil
	a.ProtectedUpdatedAt = nil

	a.Title = strings.TrimSpace(a.Title)
	a.Slug = strings.TrimSpace(a.Slug)
	a.Excerpt = strings.TrimSpace(a.Excerpt)
	a.Category = strings.TrimSpace(a.Category)
	a.Tags = normalizeTags(a.Tags)
	if a.Author != nil {
		a.Author.ID = strings.TrimSpace(a.Author.ID)
		a.Author.Name = strings.TrimSpace(a.Author.Name)
	}
	derived := a.Slug == ""
	if derived {
		a.Slug = slug.Generate(a.Title)
	}

	err := validate.Struct(a.Article)

	// A title without ASCII letters or digits yields no slug.
	var verr *validation.Error
	if derived && a.Slug == "" && a.Title != "" && errors.As(err, &verr) {
		verr.Fields["slug"] = msgSlugNotDerived
	}

	return err
}

// ArticlePatchRequest is the request payload for a partial update.
type ArticlePatchRequest struct {
	*model.ArticlePatch
}

func (p *ArticlePatchRequest) Bind(r *http.Request) error {
	if p.ArticlePatch == nil || p.Empty() {
		return ErrEmptyPatch
	}

	if p.Title != nil {
		*p.Title = strings.TrimSpace(*p.Title)
		if err := validate.Var("title", *p.Title, "required,max=300"); err != nil {
			return err
		}
	}
	if p.Slug != nil {
		*p.Slug = strings.TrimSpace(*p.Slug)
		if err := validate.Var("slug", *p.Slug, "required,slug,max=200"); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := validate.Var("content", *p.Content, "required"); err != nil {
			return err
		}
	}
	if p.Excerpt != nil {
		*p.Excerpt = strings.TrimSpace(*p.Excerpt)
		if err := validate.Var("excerpt", *p.Excerpt, "max=1000"); err != nil {
			return err
		}
	}
	if p.Category != nil {
		*p.Category = strings.TrimSpace(*p.Category)
		if err := validate.Var("category", *p.Category, "required,category"); err != nil {
			return err
		}
	}
	if p.Tags != nil {
		tags := normalizeTags(*p.Tags)
		if err := validate.Var("tags", tags, "dive,required,max=64"); err != nil {
			return err
		}
		p.Tags = &tags
	}
	if p.Author != nil {
		p.Author.ID = strings.TrimSpace(p.Author.ID)
		p.Author.Name = strings.TrimSpace(p.Author.Name)
	}

	return nil
}

// normalizeTags trims every tag and drops repeats, keeping first-seen
// order. Blank tags are kept so validation can reject them.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if _, dup := seen[t]; dup && t != "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}

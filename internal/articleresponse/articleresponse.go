package articleresponse

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
)

// MessageDeleted is the confirmation body of a successful delete.
const MessageDeleted = "News deleted"

// ArticleResponse is the response payload for the Article data model.
//
// In the ArticleResponse object, first a Render() is called on itself,
// then the next field, and so on, all the way down the tree.
type ArticleResponse struct {
	*model.Article
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func NewArticleListResponse(articles []*model.Article) []render.Renderer {
	list := []render.Renderer{}
	for _, article := range articles {
		list = append(list, NewArticleResponse(article))
	}

	return list
}

// Render makes sure tags always go out as a JSON array.
func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Tags == nil {
		rd.Tags = []string{}
	}

	return nil
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessageResponse(msg string) *MessageResponse {
	return &MessageResponse{Message: msg}
}

func (m *MessageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

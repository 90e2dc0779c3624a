package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const dateLayout = "2006-01-02"

var (
	transOnce sync.Once
	trans     ut.Translator
)

// translator installs English messages on gin's validator and reports field
// names by their json tag.
func translator() ut.Translator {
	transOnce.Do(func() {
		locale := en.New()
		trans, _ = ut.New(locale, locale).GetTranslator("en")

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = entranslations.RegisterDefaultTranslations(v, trans)
	})
	return trans
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	t := translator()
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err, t)})
		return false
	}
	return true
}

func bindingMessage(err error, t ut.Translator) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errInvalidBody
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(t))
	}
	return strings.Join(msgs, "; ")
}

type pageQuery struct {
	Page    int `form:"page"     binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1"`
}

// bindPage reads ?page=&per_page=, writing a 400 on malformed values.
func bindPage(c *gin.Context) (repository.Page, bool) {
	translator()
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "page and per_page must be positive integers"})
		return repository.Page{}, false
	}
	return repository.Page{Number: q.Page, PerPage: q.PerPage}.Normalize(), true
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Nil and empty strings yield nil.
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError("Invalid " + field + ". Use YYYY-MM-DD")
}

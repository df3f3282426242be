// Localized user-facing messages.
//
// The service predates this port and shipped with Russian client copy; the
// Go version keeps those strings and adds English as the default. The
// catalog is tiny (one string per taxonomy case) so a full i18n framework
// would be overkill: Accept-Language is matched once per error against the
// two supported tags.
package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// msgKey identifies one user-facing message in the catalog.
type msgKey int

const (
	msgBadRequest msgKey = iota
	msgBadID
	msgAuthRequired
	msgBadCredentials
	msgUserNotFound
	msgCardNotFound
	msgForeignCard
	msgEmailTaken
	msgInternal
)

// supported lists the catalog languages; the first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.Russian,
}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Tag]map[msgKey]string{
	language.English: {
		msgBadRequest:     "invalid data in request",
		msgBadID:          "identifier is not valid",
		msgAuthRequired:   "authorization required",
		msgBadCredentials: "invalid email or password",
		msgUserNotFound:   "user not found",
		msgCardNotFound:   "card not found",
		msgForeignCard:    "you cannot delete another user's card",
		msgEmailTaken:     "a user with this email already exists",
		msgInternal:       "internal server error",
	},
	language.Russian: {
		msgBadRequest:     "Неверные данные в запросе",
		msgBadID:          "Идентификатор не валиден",
		msgAuthRequired:   "Необходима авторизация",
		msgBadCredentials: "Неверные данные для входа",
		msgUserNotFound:   "Пользователь не найден",
		msgCardNotFound:   "Такая карточка не найдена",
		msgForeignCard:    "Нельзя удалить чужую карточку",
		msgEmailTaken:     "Пользователь с таким email уже существует",
		msgInternal:       "Внутренняя ошибка сервера",
	},
}

// UnauthorizedMessage returns the localized "authorization required" text.
// The auth middleware builds its 401 envelope inline to avoid an import
// cycle; this hook keeps its message in the same catalog as every other
// error response.
func UnauthorizedMessage(c *gin.Context) string {
	return localize(c, msgAuthRequired)
}

// localize resolves key against the request's Accept-Language header.
// Unknown or absent languages fall back to English.
func localize(c *gin.Context, key msgKey) string {
	tag := supported[0]
	if c != nil && c.Request != nil {
		if al := c.Request.Header.Get("Accept-Language"); al != "" {
			if t, _, err := language.ParseAcceptLanguage(al); err == nil && len(t) > 0 {
				_, idx, _ := matcher.Match(t...)
				tag = supported[idx]
			}
		}
	}
	if m, okTag := catalog[tag]; okTag {
		if s, okKey := m[key]; okKey {
			return s
		}
	}
	return catalog[supported[0]][key]
}

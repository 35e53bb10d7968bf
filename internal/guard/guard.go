// Package guard принимает решение о допуске зрителя к маршруту по срезу
// состояния координатора. Чистая функция без побочных эффектов,
// пересчитывается на каждый запрос.
package guard

import "github.com/magabrotheeeer/remote-jobboard/internal/models"

// Kind — вид решения guard'а.
type Kind int

const (
	// Render — зритель допущен, маршрут можно отдавать.
	Render Kind = iota
	// Loading — состояние ещё не авторитетно, зритель ждёт.
	Loading
	// Redirect — зритель перенаправляется на Target.
	Redirect
)

// Target — адрес перенаправления.
type Target string

// Цели перенаправления guard'а.
const (
	TargetLogin   Target = "/login"
	TargetUpgrade Target = "/upgrade"
)

// Decision — результат проверки допуска.
type Decision struct {
	Kind   Kind
	Target Target // Заполнен только для Redirect
}

// Requirement — статичные требования маршрута.
type Requirement struct {
	// NeedsEntitlement — маршрут требует действующую платную подписку
	// (помимо аутентифицированного зрителя).
	NeedsEntitlement bool
}

// Decide решает судьбу запроса по срезу состояния.
//
// Порядок проверок существенен: до разрешения аутентификации нельзя слать
// на логин, до разрешения подписки — на пейвол. Преждевременный redirect
// на /upgrade по ещё не загруженной подписке — именно тот мерцающий пейвол,
// ради которого существуют флаги готовности.
func Decide(snap models.Snapshot, req Requirement) Decision {
	if !snap.AuthResolved {
		return Decision{Kind: Loading}
	}
	if snap.Viewer == nil {
		return Decision{Kind: Redirect, Target: TargetLogin}
	}
	if req.NeedsEntitlement {
		if !snap.SubscriptionResolved {
			return Decision{Kind: Loading}
		}
		if snap.Entitlement == nil {
			return Decision{Kind: Redirect, Target: TargetUpgrade}
		}
	}
	return Decision{Kind: Render}
}

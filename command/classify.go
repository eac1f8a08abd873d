// Package command classifies natural-language requests into the command
// kinds the spec builder understands.
package command

import "regexp"

// Kind is the category of a user command.
type Kind string

const (
	KindCreate     Kind = "create"
	KindAdd        Kind = "add"
	KindRemove     Kind = "remove"
	KindModify     Kind = "modify"
	KindConnect    Kind = "connect"
	KindDisconnect Kind = "disconnect"
	KindQuery      Kind = "query"
)

// IsValid returns true if the kind is one of the known command kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindCreate, KindAdd, KindRemove, KindModify, KindConnect,
		KindDisconnect, KindQuery:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

type rule struct {
	kind    Kind
	trigger *regexp.Regexp
}

// Classifier maps free text to a command kind via an ordered rule list.
// The first matching rule wins; when nothing matches the input is treated
// as a create request.
type Classifier struct {
	rules []rule
}

// NewClassifier returns the default classifier.
//
// Rule order is a deliberate, preserved decision. Disconnect triggers are
// consulted before connect triggers because "연결 해제" contains the connect
// trigger "연결"; remove precedes add for the same reason with phrases like
// "추가된 서버 삭제". Position phrases ("뒤에", "앞에", "in front of")
// signal add even without an explicit add verb.
func NewClassifier() *Classifier {
	compile := func(k Kind, expr string) rule {
		return rule{kind: k, trigger: regexp.MustCompile("(?i)" + expr)}
	}
	return &Classifier{rules: []rule{
		compile(KindDisconnect, `연결.{0,8}(해제|끊|삭제|제거)|disconnect|unlink|연결해제`),
		compile(KindRemove, `삭제|제거|없애|지워|빼|remove|delete`),
		compile(KindConnect, `연결|이어|connect|link`),
		compile(KindAdd, `추가|붙여|더해|넣어|\badd\b|insert|앞에|뒤에|다음에|사이에|in\s*front\s*of|after|before|between`),
		compile(KindModify, `수정|변경|바꿔|이름.{0,4}(을|를)?\s*바꾸|rename|modify|change|update`),
		compile(KindQuery, `보여|조회|알려|설명|현재|show|list|what|describe|explain`),
		compile(KindCreate, `만들|생성|구성|설계|그려|create|build|design|draw`),
	}}
}

// Classify returns the command kind for the text, defaulting to create.
func (c *Classifier) Classify(text string) Kind {
	for _, r := range c.rules {
		if r.trigger.MatchString(text) {
			return r.kind
		}
	}
	return KindCreate
}

package specerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	e := New("add", CodeNotRecognized, "구성요소를 인식하지 못했습니다")
	want := "add [NOT_RECOGNIZED]: 구성요소를 인식하지 못했습니다"
	if e.Error() != want {
		t.Errorf("got %q, want %q", e.Error(), want)
	}

	wrapped := e.WithCause(errors.New("boom"))
	if got := wrapped.Error(); got != want+": boom" {
		t.Errorf("got %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk gone")
	e := New("load-artifact", CodeArtifactInvalid, "읽기 실패").WithCause(cause)

	if !errors.Is(e, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestError_IsMatchesOpAndCode(t *testing.T) {
	a := New("match", CodeNotRecognized, "메시지 하나")
	b := New("match", CodeNotRecognized, "메시지 둘")
	c := New("add", CodeNotRecognized, "")

	if !errors.Is(a, b) {
		t.Error("same op and code should match regardless of message")
	}
	if errors.Is(a, c) {
		t.Error("different op must not match")
	}
}

func TestCodeOf(t *testing.T) {
	e := New("apply", CodeInvalidOperation, "잘못된 연산")
	if got := CodeOf(e); got != CodeInvalidOperation {
		t.Errorf("got %q", got)
	}
	if got := CodeOf(fmt.Errorf("outer: %w", e)); got != CodeInvalidOperation {
		t.Errorf("wrapped: got %q", got)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("plain error: got %q", got)
	}
}

func TestError_WithDetail(t *testing.T) {
	e := New("remove", CodeNotFound, "없음").WithDetail("target", "web-server-9")
	if e.Details["target"] != "web-server-9" {
		t.Error("detail not stored")
	}
}

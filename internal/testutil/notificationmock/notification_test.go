package notificationmock

import (
	"context"
	"reflect"
	"testing"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notify(context.Background(), "u1", "first")
	r.Notify(context.Background(), "u2", "second")
	if got := r.Messages(); !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Fatalf("Messages = %v", got)
	}
	if r.Sent[1].UserID != "u2" {
		t.Fatalf("user id not kept: %+v", r.Sent[1])
	}
}

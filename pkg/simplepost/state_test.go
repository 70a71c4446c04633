package simplepost_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-post/pkg/simplepost"
)

func TestGetState(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		post     *simplepost.Post
		useDraft bool
		want     simplepost.PostState
	}{
		{"nil post", nil, false, simplepost.PostStateNew},
		{"never persisted", &simplepost.Post{}, false, simplepost.PostStateNew},
		{"persisted but not published", &simplepost.Post{Created: now}, false, simplepost.PostStateUnpublished},
		{"published, reading current", &simplepost.Post{Created: now, Published: &now}, false, simplepost.PostStatePublished},
		{"published, reading draft", &simplepost.Post{Created: now, Published: &now}, true, simplepost.PostStateDraft},
		{"unpublished draft stays unpublished", &simplepost.Post{Created: now}, true, simplepost.PostStateUnpublished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, simplepost.GetState(tt.post, tt.useDraft))
		})
	}
}

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisher_Channel(t *testing.T) {
	p := NewPublisher(nil, "mindbridge")
	assert.Equal(t, "mindbridge:user:42", p.Channel(42))
	assert.Equal(t, "redis", p.Name())
}

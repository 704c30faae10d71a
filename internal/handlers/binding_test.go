package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "nested body",
			key:      "transaction",
			body:     `{"transaction": {"name": "Tiền xin lễ", "amount": 500000}}`,
			expected: bindTarget{Name: "Tiền xin lễ", Amount: 500000},
		},
		{
			name:     "flat body",
			key:      "transaction",
			body:     `{"name": "Tiền xin lễ", "amount": 500000}`,
			expected: bindTarget{Name: "Tiền xin lễ", Amount: 500000},
		},
		{
			name:     "missing key falls back to flat",
			key:      "transaction",
			body:     `{"other": "x", "name": "Tiền dâng", "amount": 200000}`,
			expected: bindTarget{Name: "Tiền dâng", Amount: 200000},
		},
		{
			name:        "wrong field type",
			key:         "transaction",
			body:        `{"name": "Tiền dâng", "amount": "nhiều"}`,
			expectError: true,
		},
		{
			name:        "nested with wrong field type",
			key:         "transaction",
			body:        `{"transaction": {"name": "Tiền dâng", "amount": "nhiều"}}`,
			expectError: true,
		},
		{
			name:        "key holds a scalar",
			key:         "transaction",
			body:        `{"transaction": "not an object"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

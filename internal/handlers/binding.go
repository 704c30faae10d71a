package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat binds the request body to obj. Bodies wrapped under a
// resource key ({"transaction": {...}}) and flat bodies ({...}) are both
// accepted, so clients ported from the Rails-style API keep working.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	// Restore the body for any later reads
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err == nil {
		if nested, ok := wrapper[key]; ok {
			return json.Unmarshal(nested, obj)
		}
	}

	return json.Unmarshal(body, obj)
}

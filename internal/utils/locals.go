package utils

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
)

var errNoLocal = errors.New("local not set")

// GetLocals decodes a value stored with SetLocals into result.
func GetLocals(c fiber.Ctx, name string, result any) error {
	raw, ok := c.Locals(name).(string)
	if !ok {
		return errNoLocal
	}
	return json.Unmarshal([]byte(raw), result)
}

func SetLocals(c fiber.Ctx, name string, data any) {
	bytes, _ := json.Marshal(data)
	c.Locals(name, string(bytes))
}

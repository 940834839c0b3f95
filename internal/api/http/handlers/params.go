package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func parsePage(c *fiber.Ctx) (limit, offset int) {
	limit = parseInt(c.Query("limit"), 20)
	offset = parseIntAllowZero(c.Query("offset"), 0)
	return limit, offset
}

func parseSort(c *fiber.Ctx) (sortBy string, desc bool) {
	sortBy = c.Query("sort")
	desc = strings.EqualFold(c.Query("order"), "desc")
	return sortBy, desc
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseIntAllowZero(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}

package cms

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	BaseURL    string
	Token      string
	Collection string
	Timeout    time.Duration
}

func LoadConfig() (*Config, error) {
	baseURL := strings.TrimSuffix(os.Getenv("CMS_BASE_URL"), "/")
	if baseURL == "" {
		return nil, errors.New("CMS_BASE_URL is required")
	}

	token := os.Getenv("CMS_TOKEN")
	if token == "" {
		return nil, errors.New("CMS_TOKEN is required")
	}

	collection := os.Getenv("CMS_COLLECTION")
	if collection == "" {
		collection = "articles"
	}

	timeout := defaultTimeout
	if ms := os.Getenv("CMS_TIMEOUT_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CMS_TIMEOUT_MS: %q", ms)
		}
		timeout = time.Duration(n) * time.Millisecond
	}

	return &Config{
		BaseURL:    baseURL,
		Token:      token,
		Collection: collection,
		Timeout:    timeout,
	}, nil
}

package es

import (
	"github.com/elastic/go-elasticsearch/v9"
)

const PostIndex = "posts"

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	}
	return elasticsearch.NewClient(cfg)
}

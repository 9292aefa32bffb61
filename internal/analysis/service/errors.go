package service

import "errors"

var ErrNotEnoughWords = errors.New("not enough words to build a word cloud")

package main

import (
	"os"
	"strconv"
)

const defaultLevel = 6

// level is the compression level given to the third-party codecs.
var level int = levelFromEnv()

func levelFromEnv() int {
	if e := os.Getenv("PACKBENCH_LEVEL"); e != "" {
		l, err := parseLevel(e)
		if err != nil {
			panic("malformed PACKBENCH_LEVEL environment variable, should be a level from 1 to 9: " + e)
		}
		return l
	}
	return defaultLevel
}

func parseLevel(s string) (int, error) {
	l, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if l < 1 || l > 9 {
		return 0, strconv.ErrRange
	}
	return l, nil
}

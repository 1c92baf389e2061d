//go:build race

package bts

const raceEnabled = true

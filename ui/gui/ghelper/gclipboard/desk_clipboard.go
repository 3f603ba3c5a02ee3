//go:build !js && !wasm

package gclipboard

import "github.com/atotto/clipboard"

func WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

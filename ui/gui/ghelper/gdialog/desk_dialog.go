//go:build !js && !wasm

package gdialog

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
)

var ErrCancelled = errors.New("no file chosen")

// PickEngine asks for the UCI engine binary with a native file dialog.
func PickEngine(title string) (string, error) {
	path, err := dialog.File().Title(title).Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", err
	}
	st, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if st.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return path, nil
}

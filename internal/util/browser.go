package util

import (
	"os/exec"
	"runtime"
)

// browserCommands 各平台打开 URL 的命令，按优先级排列
var browserCommands = map[string][][]string{
	// rundll32 在 Windows 7 上比 cmd /c start 更稳定
	"windows": {{"rundll32", "url.dll,FileProtocolHandler"}, {"explorer"}},
	"darwin":  {{"open"}},
	"linux":   {{"xdg-open"}, {"sensible-browser"}, {"google-chrome"}, {"firefox"}},
}

// OpenBrowser 用默认浏览器打开 url，依次尝试备选命令
func OpenBrowser(url string) error {
	return openWith(browserCommands[runtime.GOOS], url, func(name string, args ...string) error {
		return exec.Command(name, args...).Start()
	})
}

func openWith(candidates [][]string, url string, start func(name string, args ...string) error) error {
	if len(candidates) == 0 {
		candidates = browserCommands["linux"]
	}
	var firstErr error
	for _, c := range candidates {
		args := append(append([]string{}, c[1:]...), url)
		err := start(c[0], args...)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

package platform

import (
	"os/exec"
	"runtime"
)

// OpenBrowser opens the given URL in the user's default browser. Failures
// are ignored: the server keeps running either way and the URL is printed
// at startup.
func OpenBrowser(url string) {
	switch runtime.GOOS {
	case "darwin":
		exec.Command("open", url).Start()
	case "linux":
		exec.Command("xdg-open", url).Start()
	case "windows":
		exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	}
}

package procutil

import "os"

func osEnviron() []string {
	return os.Environ()
}

// Command mdblog builds, serves and previews a static markdown blog.
package main

// version is set at build time via ldflags.
var version = "dev"

func main() {
	Execute()
}

// Command goexport exports database tables as batched INSERT scripts.
package main

import "github.com/dbsmedya/goexport/cmd/goexport/cmd"

func main() {
	cmd.Execute()
}

/*
Copyright © 2025 Book Tutor Authors
*/
package main

import "booktutor/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/nsxzhou1114/posttag-api/cmd"

func main() {
	cmd.Execute()
}

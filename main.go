package main

import "github.com/ValentinKolb/rgKV/cmd"

func main() {
	cmd.Execute()
}

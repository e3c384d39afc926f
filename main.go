/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/stationlog/cmd"

func main() {
	cmd.Execute()
}

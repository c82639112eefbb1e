package main

import "github.com/Tiliavir/work-mileage-tracker/cmd"

func main() {
	cmd.Execute()
}

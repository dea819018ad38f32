package main

import "github.com/Asside333/HabitHub/cmd/hh/root"

func main() {
	root.Execute()
}

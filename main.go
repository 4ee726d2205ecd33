package main

import "github.com/JackIHill/CerebellumProject/cmd"

func main() {
	cmd.Execute()
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/cpgrams/cmd/cpgrams/cmd"

func main() {
	cmd.Execute()
}

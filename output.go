package main

import "github.com/fatih/color"

var (
	success = color.New(color.FgGreen, color.Bold).SprintFunc()
	failure = color.New(color.FgRed, color.Bold).SprintFunc()
	notice  = color.New(color.FgYellow).SprintFunc()
)

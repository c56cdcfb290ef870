package main

import "github.com/fatih/color"

func green(s string) string {
	g := color.New(color.FgHiGreen)
	g.EnableColor()
	return g.SprintFunc()(s)
}

func red(s string) string {
	r := color.New(color.FgHiRed)
	r.EnableColor()
	return r.SprintFunc()(s)
}

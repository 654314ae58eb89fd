package main

import "fmt"

func versionString() string {
	s := version
	if commit != "" {
		s += " (" + commit + ")"
	}
	if date != "" {
		s += " built " + date
	}
	return s
}

func versionTemplate(program string) string {
	return fmt.Sprintf("%s version %s\n", program, versionString())
}

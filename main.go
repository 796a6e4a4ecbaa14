package main

import "github.com/IonImpulse/fivec-scheduler-server/cmd"

func main() {
	cmd.Execute()
}

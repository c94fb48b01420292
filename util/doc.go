// Package util holds small helpers shared by configuration and transport code.
package util

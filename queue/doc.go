/*
Package queue defines the trials of an experiment as tasks to be
performed by workers, as well as an interface for a Queue to manage
them and collect their results.

It also provides an in-memory implementation of the Queue interface
*/
package queue

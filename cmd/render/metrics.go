package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pipelined/render/metric"
)

// printMetrics logs render counters of all metered components.
func printMetrics(l *logrus.Logger) {
	for component, counters := range metric.GetAll() {
		fields := logrus.Fields{}
		for name, value := range counters {
			fields[name] = value
		}
		l.WithFields(fields).Info(fmt.Sprintf("%s metrics", component))
	}
}

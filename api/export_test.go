package api

var RouteLine = routeLine

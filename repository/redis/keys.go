package redis

const keyPrefix = "taskboard:"
